// Package config determines where the Android resources and the gettext
// catalogs of a project live.
//
// Directories can be given on the command line, in a .android2po.yaml
// file, or derived from an Android project directory found by walking up
// from the working directory (AndroidManifest.xml marks the project
// root; defaults are then res/ and locale/).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/miracle2k/android2po/android"
)

// Project holds the resolved runtime configuration.
type Project struct {
	// Name is the project name used in catalog headers.
	Name string
	// Version is the project version used in catalog headers.
	Version string
	// ResourceDir is the Android res/ directory.
	ResourceDir string
	// GettextDir is the directory holding .po/.pot files.
	GettextDir string
	// Template is the template file name inside GettextDir.
	Template string
	// Languages restricts the languages to operate on; empty means all
	// languages detected in ResourceDir.
	Languages []string
	// IncludeUntranslated makes import write untranslated strings with
	// their source text.
	IncludeUntranslated bool

	// ProjectDir is the discovered Android project root ("" when the
	// directories were given explicitly).
	ProjectDir string
	// ConfigFile is the configuration file in use ("" when none).
	ConfigFile string
}

// TemplatePath returns the path of the POT template.
func (p *Project) TemplatePath() string {
	return filepath.Join(p.GettextDir, p.Template)
}

// POPath returns the path of the catalog for a language code.
func (p *Project) POPath(code string) string {
	return filepath.Join(p.GettextDir, code+".po")
}

// DefaultStringsPath returns the path of the default strings.xml.
func (p *Project) DefaultStringsPath() string {
	return android.DefaultStringsPath(p.ResourceDir)
}

// StringsPath returns the path of a language's strings.xml.
func (p *Project) StringsPath(code string) string {
	return android.StringsPath(p.ResourceDir, code)
}

// Flags carries the command-line values that participate in resolution.
type Flags struct {
	Android string // --android
	Gettext string // --gettext
	Config  string // --config
}

// Resolve builds the runtime configuration: command-line flags override
// config file values, which override defaults derived from a discovered
// project directory.
func Resolve(startDir string, flags Flags) (*Project, error) {
	projectDir, configFile := Discover(startDir)
	if flags.Config != "" {
		configFile = flags.Config
	}

	p := &Project{
		Template:   "template.pot",
		ProjectDir: projectDir,
		ConfigFile: configFile,
	}

	if configFile != "" {
		if err := applyFile(p, configFile); err != nil {
			return nil, err
		}
	}
	if flags.Android != "" {
		p.ResourceDir = flags.Android
	}
	if flags.Gettext != "" {
		p.GettextDir = flags.Gettext
	}

	if p.ResourceDir == "" || p.GettextDir == "" {
		if projectDir == "" {
			if configFile == "" {
				return nil, fmt.Errorf("you need to run this from inside an " +
					"Android project directory, or specify the source and target " +
					"directories manually, either as command line options or " +
					"through a configuration file")
			}
			return nil, fmt.Errorf("your configuration file does not specify " +
				"the source and target directory, and you are not running " +
				"inside an Android project directory")
		}
		if p.ResourceDir == "" {
			p.ResourceDir = filepath.Join(projectDir, "res")
		}
		if p.GettextDir == "" {
			p.GettextDir = filepath.Join(projectDir, "locale")
		}
	}

	if p.Name == "" {
		base := projectDir
		if base == "" {
			base = filepath.Dir(p.ResourceDir)
		}
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		p.Name = filepath.Base(base)
	}
	if p.Version == "" {
		p.Version = "0.0.0"
	}

	return p, nil
}

// ConfigFileName is the project configuration file looked up during
// discovery.
const ConfigFileName = ".android2po.yaml"

// Discover walks upwards from startDir looking for an Android project
// directory (AndroidManifest.xml) or a configuration file. The search
// stops at the first directory containing either; both may come from
// the same directory.
func Discover(startDir string) (projectDir, configFile string) {
	cur, err := filepath.Abs(startDir)
	if err != nil {
		cur = startDir
	}

	for {
		manifest := filepath.Join(cur, "AndroidManifest.xml")
		if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
			projectDir = cur
		}
		cfg := filepath.Join(cur, ConfigFileName)
		if info, err := os.Stat(cfg); err == nil && !info.IsDir() {
			configFile = cfg
		}
		if projectDir != "" || configFile != "" {
			return projectDir, configFile
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", ""
		}
		cur = parent
	}
}

// CollectLanguages scans the resource directory for values-XX directories
// containing a strings.xml. It returns the path of the default (language
// neutral) file and a map of language code to file path.
func CollectLanguages(resourceDir string) (defaultFile string, languages map[string]string, err error) {
	entries, err := os.ReadDir(resourceDir)
	if err != nil {
		return "", nil, fmt.Errorf("reading resource directory: %w", err)
	}

	languages = make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		code, ok := android.DirNameToCode(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(resourceDir, entry.Name(), "strings.xml")
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		if code == "" {
			defaultFile = path
		} else {
			languages[code] = path
		}
	}

	if defaultFile == "" {
		return "", nil, fmt.Errorf("no default strings.xml found in %s", resourceDir)
	}
	return defaultFile, languages, nil
}

// SortedCodes returns the keys of a language map in sorted order.
func SortedCodes(languages map[string]string) []string {
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
