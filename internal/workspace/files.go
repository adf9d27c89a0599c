package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var DefaultExcludeDirs = []string{
	".git",
	"node_modules",
	"vendor",
	".cache",
	".turbo",
	".next",
}

func isExcludedDir(name string) bool {
	for _, d := range DefaultExcludeDirs {
		if name == d {
			return true
		}
	}
	return false
}

// ListEnvFiles returns the absolute paths of all .env files under root.
func ListEnvFiles(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsEnvFilename(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// IsEnvFilename reports whether name is ".env" or ".env.<suffix>", leaving
// out the backup and temp files written next to a rewritten file.
func IsEnvFilename(name string) bool {
	if name == ".env" {
		return true
	}
	suffix, ok := strings.CutPrefix(name, ".env.")
	if !ok || suffix == "" {
		return false
	}
	return !strings.HasSuffix(name, ".bak") && !strings.HasSuffix(name, ".tmp")
}
