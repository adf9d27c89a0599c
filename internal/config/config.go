package config

import (
	"fmt"
	"path/filepath"

	"github.com/xmazu/envy/internal/storage"
	"github.com/xmazu/envy/internal/workspace"
)

const (
	GlobalFileName  = "config.yaml"
	ProjectFileName = ".envy.yaml"
)

type FormatConfig struct {
	Dupes string `yaml:"dupes,omitempty"`
}

type SortConfig struct {
	Method string `yaml:"method,omitempty"`
}

type ValidateConfig struct {
	CheckRequired *bool  `yaml:"check_required,omitempty"`
	Error         *bool  `yaml:"error,omitempty"`
	Example       string `yaml:"example,omitempty"`
}

// Config holds command defaults. Empty fields mean "not set" so that a
// project file only overrides what it names.
type Config struct {
	Format   FormatConfig   `yaml:"format"`
	Sort     SortConfig     `yaml:"sort"`
	Validate ValidateConfig `yaml:"validate"`

	// Sources lists the files that were merged, lowest precedence first.
	Sources []string `yaml:"-"`
}

func Default() *Config {
	f := false
	return &Config{
		Format:   FormatConfig{Dupes: "keep-first"},
		Sort:     SortConfig{Method: "group"},
		Validate: ValidateConfig{CheckRequired: &f, Error: &f, Example: ".env.example"},
	}
}

func GlobalPath() string {
	return filepath.Join(ConfigDir(), GlobalFileName)
}

// Load returns the defaults overlaid with the global config file and then the
// nearest project file between dir and its workspace root.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := cfg.mergeFile(GlobalPath()); err != nil {
		return nil, err
	}

	if project, ok := FindProjectFile(dir); ok {
		if err := cfg.mergeFile(project); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) CheckRequired() bool {
	return c.Validate.CheckRequired != nil && *c.Validate.CheckRequired
}

func (c *Config) ErrorMode() bool {
	return c.Validate.Error != nil && *c.Validate.Error
}

func (c *Config) mergeFile(path string) error {
	var over Config
	found, err := storage.NewYAMLFile(path).LoadIfExists(&over)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !found {
		return nil
	}

	c.merge(&over)
	c.Sources = append(c.Sources, path)
	return nil
}

func (c *Config) merge(o *Config) {
	if o.Format.Dupes != "" {
		c.Format.Dupes = o.Format.Dupes
	}
	if o.Sort.Method != "" {
		c.Sort.Method = o.Sort.Method
	}
	if o.Validate.CheckRequired != nil {
		c.Validate.CheckRequired = o.Validate.CheckRequired
	}
	if o.Validate.Error != nil {
		c.Validate.Error = o.Validate.Error
	}
	if o.Validate.Example != "" {
		c.Validate.Example = o.Validate.Example
	}
}

// FindProjectFile walks from dir up to the workspace root looking for a
// project config file.
func FindProjectFile(dir string) (string, bool) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	root, err := workspace.FindRoot(start)
	if err != nil {
		return "", false
	}

	for cur := start; ; {
		path := filepath.Join(cur, ProjectFileName)
		if storage.NewYAMLFile(path).Exists() {
			return path, true
		}
		parent := filepath.Dir(cur)
		if cur == root || parent == cur {
			return "", false
		}
		cur = parent
	}
}

// WriteProjectFile writes cfg as the project file in dir and returns its path.
func WriteProjectFile(dir string, cfg *Config) (string, error) {
	path := filepath.Join(dir, ProjectFileName)
	file := storage.NewYAMLFile(path)
	if file.Exists() {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := file.SaveWithPerm(cfg, 0644); err != nil {
		return "", err
	}
	return file.Path(), nil
}
