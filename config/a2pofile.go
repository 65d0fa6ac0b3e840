// .android2po.yaml configuration file support.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML schema of .android2po.yaml. Relative paths are
// resolved against the directory containing the file.
type fileConfig struct {
	// Name overrides the project name used in catalog headers.
	Name string `yaml:"name,omitempty"`
	// Version overrides the project version used in catalog headers.
	Version string `yaml:"version,omitempty"`
	// Android is the resource directory.
	Android string `yaml:"android,omitempty"`
	// Gettext is the directory holding the .po/.pot files.
	Gettext string `yaml:"gettext,omitempty"`
	// Template is the template file name (default "template.pot").
	Template string `yaml:"template,omitempty"`
	// Languages restricts the languages to operate on.
	Languages []string `yaml:"languages,omitempty"`
	// IncludeUntranslated controls whether import writes untranslated
	// strings with their source text.
	IncludeUntranslated bool `yaml:"include_untranslated,omitempty"`
}

// applyFile merges values from a configuration file into p.
func applyFile(p *Project, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	resolve := func(dir string) string {
		if dir == "" || filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(baseDir, dir)
	}

	if fc.Name != "" {
		p.Name = fc.Name
	}
	if fc.Version != "" {
		p.Version = fc.Version
	}
	if fc.Android != "" {
		p.ResourceDir = resolve(fc.Android)
	}
	if fc.Gettext != "" {
		p.GettextDir = resolve(fc.Gettext)
	}
	if fc.Template != "" {
		p.Template = fc.Template
	}
	if len(fc.Languages) > 0 {
		p.Languages = fc.Languages
	}
	p.IncludeUntranslated = p.IncludeUntranslated || fc.IncludeUntranslated

	return nil
}
