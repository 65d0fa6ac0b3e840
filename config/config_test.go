package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "myapp")
	nested := filepath.Join(project, "src", "deep")
	writeFile(t, filepath.Join(project, "AndroidManifest.xml"), "<manifest/>")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	// The manifest is found by walking up from a nested directory.
	projectDir, configFile := Discover(nested)
	if projectDir != project {
		t.Fatalf("projectDir = %q, want %q", projectDir, project)
	}
	if configFile != "" {
		t.Fatalf("configFile = %q, want none", configFile)
	}

	// A config file in the same directory is picked up together with it.
	writeFile(t, filepath.Join(project, ConfigFileName), "")
	projectDir, configFile = Discover(nested)
	if projectDir != project || configFile != filepath.Join(project, ConfigFileName) {
		t.Fatalf("Discover = %q, %q", projectDir, configFile)
	}

	// The walk stops at the first directory containing either marker: a
	// config file below the project root shadows the manifest above it.
	writeFile(t, filepath.Join(project, "src", ConfigFileName), "")
	projectDir, configFile = Discover(nested)
	if projectDir != "" {
		t.Fatalf("projectDir = %q, want none", projectDir)
	}
	if configFile != filepath.Join(project, "src", ConfigFileName) {
		t.Fatalf("configFile = %q", configFile)
	}
}

func TestResolveFromProjectDir(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "AndroidManifest.xml"), "<manifest/>")

	p, err := Resolve(project, Flags{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.ResourceDir != filepath.Join(project, "res") {
		t.Fatalf("ResourceDir = %q", p.ResourceDir)
	}
	if p.GettextDir != filepath.Join(project, "locale") {
		t.Fatalf("GettextDir = %q", p.GettextDir)
	}
	if p.Name != filepath.Base(project) {
		t.Fatalf("Name = %q, want %q", p.Name, filepath.Base(project))
	}
	if p.Version != "0.0.0" {
		t.Fatalf("Version = %q", p.Version)
	}
	if p.Template != "template.pot" {
		t.Fatalf("Template = %q", p.Template)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "AndroidManifest.xml"), "<manifest/>")

	p, err := Resolve(project, Flags{Android: "/custom/res"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.ResourceDir != "/custom/res" {
		t.Fatalf("ResourceDir = %q", p.ResourceDir)
	}
	// The other directory still comes from the project layout.
	if p.GettextDir != filepath.Join(project, "locale") {
		t.Fatalf("GettextDir = %q", p.GettextDir)
	}
}

func TestResolveOutsideProject(t *testing.T) {
	dir := t.TempDir()

	if _, err := Resolve(dir, Flags{}); err == nil {
		t.Fatal("Resolve outside a project should fail")
	}

	// Both directories given explicitly works anywhere.
	p, err := Resolve(dir, Flags{Android: "/r", Gettext: "/l"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.ResourceDir != "/r" || p.GettextDir != "/l" {
		t.Fatalf("dirs = %q, %q", p.ResourceDir, p.GettextDir)
	}

	// Only one directory given is still incomplete.
	if _, err := Resolve(dir, Flags{Android: "/r"}); err == nil {
		t.Fatal("Resolve with only --android should fail")
	}
}

func TestResolveConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `
name: myapp
version: 1.2.3
android: resources
gettext: po
template: strings.pot
languages: [de, fr]
include_untranslated: true
`)

	p, err := Resolve(dir, Flags{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.Name != "myapp" || p.Version != "1.2.3" {
		t.Fatalf("Name/Version = %q, %q", p.Name, p.Version)
	}
	// Relative paths resolve against the config file's directory.
	if p.ResourceDir != filepath.Join(dir, "resources") {
		t.Fatalf("ResourceDir = %q", p.ResourceDir)
	}
	if p.GettextDir != filepath.Join(dir, "po") {
		t.Fatalf("GettextDir = %q", p.GettextDir)
	}
	if p.Template != "strings.pot" {
		t.Fatalf("Template = %q", p.Template)
	}
	if !reflect.DeepEqual(p.Languages, []string{"de", "fr"}) {
		t.Fatalf("Languages = %v", p.Languages)
	}
	if !p.IncludeUntranslated {
		t.Fatal("IncludeUntranslated should be set")
	}

	// Flags still win over the file.
	p, err = Resolve(dir, Flags{Gettext: "/explicit"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if p.GettextDir != "/explicit" {
		t.Fatalf("GettextDir = %q", p.GettextDir)
	}
}

func TestResolveBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), "languages: {not: a list}")
	if _, err := Resolve(dir, Flags{}); err == nil {
		t.Fatal("invalid YAML should be an error")
	}
}

func TestCollectLanguages(t *testing.T) {
	res := t.TempDir()
	writeFile(t, filepath.Join(res, "values", "strings.xml"), "<resources/>")
	writeFile(t, filepath.Join(res, "values-de", "strings.xml"), "<resources/>")
	writeFile(t, filepath.Join(res, "values-pt-rBR", "strings.xml"), "<resources/>")
	// Qualifier directories and dirs without strings.xml are skipped.
	writeFile(t, filepath.Join(res, "values-w820dp", "strings.xml"), "<resources/>")
	if err := os.MkdirAll(filepath.Join(res, "values-fr"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(res, "drawable", "icon.xml"), "<x/>")

	defaultFile, languages, err := CollectLanguages(res)
	if err != nil {
		t.Fatalf("CollectLanguages error: %v", err)
	}
	if defaultFile != filepath.Join(res, "values", "strings.xml") {
		t.Fatalf("defaultFile = %q", defaultFile)
	}
	want := map[string]string{
		"de":    filepath.Join(res, "values-de", "strings.xml"),
		"pt_BR": filepath.Join(res, "values-pt-rBR", "strings.xml"),
	}
	if !reflect.DeepEqual(languages, want) {
		t.Fatalf("languages = %v, want %v", languages, want)
	}
	if got := SortedCodes(languages); !reflect.DeepEqual(got, []string{"de", "pt_BR"}) {
		t.Fatalf("SortedCodes = %v", got)
	}
}

func TestCollectLanguagesNoDefault(t *testing.T) {
	res := t.TempDir()
	writeFile(t, filepath.Join(res, "values-de", "strings.xml"), "<resources/>")

	_, _, err := CollectLanguages(res)
	if err == nil {
		t.Fatal("missing default strings.xml should be an error")
	}
}

func TestPaths(t *testing.T) {
	p := &Project{ResourceDir: "/app/res", GettextDir: "/app/locale", Template: "template.pot"}
	if got := p.TemplatePath(); got != filepath.Join("/app/locale", "template.pot") {
		t.Fatalf("TemplatePath = %q", got)
	}
	if got := p.POPath("pt_BR"); got != filepath.Join("/app/locale", "pt_BR.po") {
		t.Fatalf("POPath = %q", got)
	}
	if got := p.StringsPath("pt_BR"); got != filepath.Join("/app/res", "values-pt-rBR", "strings.xml") {
		t.Fatalf("StringsPath = %q", got)
	}
	if got := p.DefaultStringsPath(); got != filepath.Join("/app/res", "values", "strings.xml") {
		t.Fatalf("DefaultStringsPath = %q", got)
	}
}
