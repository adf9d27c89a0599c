package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type YAMLFile struct {
	path string
}

func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

func (y *YAMLFile) Path() string {
	return y.path
}

func (y *YAMLFile) Exists() bool {
	_, err := os.Stat(y.path)
	return err == nil
}

func (y *YAMLFile) Load(dest any) error {
	data, err := os.ReadFile(y.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file not found: %s", y.path)
		}
		return fmt.Errorf("read file: %w", err)
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse yaml %s: %w", y.path, err)
	}

	return nil
}

// LoadIfExists is Load that treats a missing file as empty and reports
// whether anything was read.
func (y *YAMLFile) LoadIfExists(dest any) (bool, error) {
	if !y.Exists() {
		return false, nil
	}
	if err := y.Load(dest); err != nil {
		return false, err
	}
	return true, nil
}

func (y *YAMLFile) SaveWithPerm(data any, perm os.FileMode) error {
	dir := filepath.Dir(y.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if err := os.WriteFile(y.path, out, perm); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
