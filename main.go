// a2po converts Android string resources to gettext .po files, and
// import them right back.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miracle2k/android2po/android"
	"github.com/miracle2k/android2po/config"
	"github.com/miracle2k/android2po/convert"
	"github.com/miracle2k/android2po/i18n"
	"github.com/miracle2k/android2po/langmeta"
	"github.com/miracle2k/android2po/merge"
	"github.com/miracle2k/android2po/plural"
	"github.com/miracle2k/android2po/pofile"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

func logVerbose(format string, args ...any) {
	if verbose {
		logInfo(format, args...)
	}
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	androidDir string
	gettextDir string
	configFile string
	verbose    bool
	quiet      bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "a2po",
		Short: "Convert Android string resources to gettext .po files, and import them right back",
		Long: `a2po converts Android string resources to gettext .po files,
and imports them right back.

Run inside an Android project directory (the one containing
AndroidManifest.xml) and a2po assumes res/ for resources and locale/
for catalogs. Both directories can also be set explicitly, on the
command line or in a .android2po.yaml file.

Commands:
  init        Create .po files for new languages
  export      Update the .pot template and merge it into the .po files
  import      Write translated .po catalogs back to values-XX/strings.xml
  status      Show project info and translation statistics`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&androidDir, "android", "", "Android resource directory ($PROJECT/res by default)")
	root.PersistentFlags().StringVar(&gettextDir, "gettext", "", "directory containing the .po files ($PROJECT/locale by default)")
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file to use")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "be extra verbose")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "be extra quiet")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newInitCmd(),
		newExportCmd(),
		newImportCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// env bundles everything the commands operate on: the resolved project
// configuration, the parsed default strings.xml, and the language files
// found in the resource directory.
type env struct {
	proj        *config.Project
	defaultFile *android.File
	// languages maps language code to the path of its strings.xml.
	languages map[string]string
}

func prepareEnv() (*env, error) {
	proj, err := config.Resolve(".", config.Flags{
		Android: androidDir,
		Gettext: gettextDir,
		Config:  configFile,
	})
	if err != nil {
		return nil, err
	}
	if proj.ConfigFile != "" {
		logVerbose("using config file: %s", proj.ConfigFile)
	}
	logVerbose("using as Android resource dir: %s", proj.ResourceDir)
	logVerbose("using as gettext dir: %s", proj.GettextDir)

	defaultPath, languages, err := config.CollectLanguages(proj.ResourceDir)
	if err != nil {
		return nil, err
	}

	// An explicit language list restricts what we operate on.
	if len(proj.Languages) > 0 {
		restricted := make(map[string]string)
		for _, code := range proj.Languages {
			if path, ok := languages[code]; ok {
				restricted[code] = path
			}
		}
		languages = restricted
	}

	def, err := android.ParseFile(defaultPath)
	if err != nil {
		return nil, err
	}

	codes := config.SortedCodes(languages)
	logInfo(i18n.N("Found %d language: %s", "Found %d languages: %s", len(codes)),
		len(codes), strings.Join(codes, ", "))

	return &env{proj: proj, defaultFile: def, languages: languages}, nil
}

// generatePO creates the .po file for one language from the default
// file plus that language's existing strings.xml translations.
func (e *env) generatePO(code, xmlPath, poPath string) error {
	logInfo(i18n.T("Generating %s.po..."), code)

	trans, err := android.ParseFile(xmlPath)
	if err != nil {
		return err
	}
	cat, unmatched, err := convert.XML2PO(e.defaultFile, trans, code, logWarning)
	if err != nil {
		return err
	}

	rule, known := plural.RuleFor(code)
	if !known {
		logWarning("unknown plural rules for language %q, assuming two forms", code)
	}
	cat.Header = pofile.MakeHeader(e.proj.Name, e.proj.Version, code, rule.Header())
	cat.SetHeaderField("Language-Team", langmeta.Resolve(code).Name)

	if err := cat.WriteFile(poPath); err != nil {
		return err
	}

	total, translated, _, _ := cat.Stats()
	logInfo(i18n.T("%d strings processed, %d translated."), total, translated)
	if len(unmatched) > 0 {
		logWarning("xml for %s contains strings not found in default file: %s",
			code, strings.Join(unmatched, ", "))
	}
	return nil
}

// template converts the default file into the POT catalog.
func (e *env) template() (*pofile.File, error) {
	cat, _, err := convert.XML2PO(e.defaultFile, nil, "", logWarning)
	if err != nil {
		return nil, err
	}
	cat.Header = pofile.MakeHeader(e.proj.Name, e.proj.Version, "", "")
	return cat, nil
}

func ensureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		logInfo("Created %s", dir)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ---------------------------------------------------------------------------
// init (create .po files for new languages)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [language...]",
		Short: "Create .po files for new languages",
		Long: `Create a .po file for each given language, based on the default
strings.xml and any existing translations in values-XX/strings.xml.
Languages without a resource directory get an empty one created.

With no arguments, all languages found in the resource directory that
lack a .po file are initialized. Existing .po files are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
}

func runInit(args []string) error {
	e, err := prepareEnv()
	if err != nil {
		return err
	}

	codes := args
	if len(codes) == 0 {
		codes = config.SortedCodes(e.languages)
	}

	if err := ensureDir(e.proj.GettextDir); err != nil {
		return err
	}

	for _, code := range codes {
		xmlPath, ok := e.languages[code]
		if !ok {
			// A language that has no resources yet: start it off with an
			// empty strings.xml.
			xmlPath = e.proj.StringsPath(code)
			if err := android.NewFile().WriteFile(xmlPath); err != nil {
				return err
			}
			logInfo("Created %s", xmlPath)
		}

		poPath := e.proj.POPath(code)
		if fileExists(poPath) {
			logInfo(i18n.T("%s.po exists, skipping."), code)
			continue
		}
		if err := e.generatePO(code, xmlPath, poPath); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// export (update template, merge into .po files)
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	var initial, overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Update the .pot template and merge it into the .po files",
		Long: `Regenerate the template.pot from the default strings.xml, then
bring the per-language .po files up to date: by default new template
entries are merged into each existing catalog (keeping translations,
marking changed entries fuzzy and dropped ones obsolete).

With --initial, .po files are created for languages that have none
yet; with --overwrite they are recreated from the XML for all
languages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(initial, overwrite)
		},
	}

	cmd.Flags().BoolVar(&initial, "initial", false, "create .po files for new languages based on their XML files")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "recreate .po files for all languages from their XML counterparts")
	cmd.MarkFlagsMutuallyExclusive("initial", "overwrite")

	return cmd
}

func runExport(initial, overwrite bool) error {
	e, err := prepareEnv()
	if err != nil {
		return err
	}

	if err := ensureDir(e.proj.GettextDir); err != nil {
		return err
	}

	logInfo(i18n.T("Generating template.pot"))
	pot, err := e.template()
	if err != nil {
		return err
	}
	if err := pot.WriteFile(e.proj.TemplatePath()); err != nil {
		return err
	}

	for _, code := range config.SortedCodes(e.languages) {
		poPath := e.proj.POPath(code)

		if initial || overwrite {
			if fileExists(poPath) && !overwrite {
				logInfo(i18n.T("%s.po exists, skipping."), code)
				continue
			}
			if err := e.generatePO(code, e.languages[code], poPath); err != nil {
				return err
			}
			continue
		}

		if !fileExists(poPath) {
			logWarning("skipping %s, .po file doesn't exist; use --initial", code)
			continue
		}
		logInfo(i18n.T("Processing %s"), code)

		langPo, err := pofile.ParseFile(poPath)
		if err != nil {
			return err
		}
		merged := merge.Merge(langPo, pot)
		if merged.HeaderField("Language") == "" {
			merged.SetHeaderField("Language", code)
		}
		if merged.HeaderField("Plural-Forms") == "" {
			rule, _ := plural.RuleFor(code)
			merged.SetHeaderField("Plural-Forms", rule.Header())
		}
		if err := merged.WriteFile(poPath); err != nil {
			return err
		}
	}

	logSuccess("export complete")
	return nil
}

// ---------------------------------------------------------------------------
// import (write .po catalogs back to strings.xml)
// ---------------------------------------------------------------------------

func newImportCmd() *cobra.Command {
	var withUntranslated bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Write translated .po catalogs back to values-XX/strings.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(withUntranslated)
		},
	}

	cmd.Flags().BoolVar(&withUntranslated, "include-untranslated", false,
		"write untranslated strings with their source text")

	return cmd
}

func runImport(withUntranslated bool) error {
	e, err := prepareEnv()
	if err != nil {
		return err
	}
	withUntranslated = withUntranslated || e.proj.IncludeUntranslated

	for _, code := range config.SortedCodes(e.languages) {
		poPath := e.proj.POPath(code)
		if !fileExists(poPath) {
			logWarning("skipping %s, .po file doesn't exist", code)
			continue
		}
		logInfo(i18n.T("Processing %s"), code)

		cat, err := pofile.ParseFile(poPath)
		if err != nil {
			return err
		}
		xml := convert.PO2XML(cat, code, withUntranslated, logWarning)
		if err := xml.WriteFile(e.proj.StringsPath(code)); err != nil {
			return err
		}
	}

	logSuccess("import complete")
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project info and translation statistics",
		Long: `Show the resolved project directories, the detected languages,
and per-language translation progress. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	e, err := prepareEnv()
	if err != nil {
		return err
	}
	proj := e.proj

	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Name:       %s\n", proj.Name)
	fmt.Fprintf(os.Stderr, "  Version:    %s\n", proj.Version)
	fmt.Fprintf(os.Stderr, "  Resources:  %s\n", proj.ResourceDir)
	fmt.Fprintf(os.Stderr, "  Gettext:    %s\n", proj.GettextDir)
	if proj.ConfigFile != "" {
		fmt.Fprintf(os.Stderr, "  Config:     %s\n", proj.ConfigFile)
	}

	if !fileExists(proj.TemplatePath()) {
		fmt.Fprintln(os.Stderr)
		logInfo("No POT template found. Run 'a2po export' to create it.")
		return nil
	}

	fmt.Fprintf(os.Stderr, "\n%sTranslations%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, code := range config.SortedCodes(e.languages) {
		name := langmeta.Resolve(code).Name
		poPath := proj.POPath(code)
		if !fileExists(poPath) {
			fmt.Fprintf(os.Stderr, "  %-8s %-22s %s\n", code, name, "no .po file")
			continue
		}
		cat, err := pofile.ParseFile(poPath)
		if err != nil {
			logWarning("%v", err)
			continue
		}
		total, translated, fuzzy, _ := cat.Stats()
		percent := 0
		if total > 0 {
			percent = translated * 100 / total
		}
		line := fmt.Sprintf("  %-8s %-22s %s  %d/%d", code, name, progressBar(percent, 20), translated, total)
		if fuzzy > 0 {
			line += fmt.Sprintf(" (%d fuzzy)", fuzzy)
		}
		fmt.Fprintln(os.Stderr, line)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// progressBar renders a colored bar for a completion percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorGreen
	switch {
	case percent < 34:
		color = colorRed
	case percent < 100:
		color = colorYellow
	}
	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) +
		colorReset + fmt.Sprintf(" %3d%%", percent)
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("a2po version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}
