package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const globMeta = `*?[{\`

// ExpandPaths resolves each argument to file paths. Arguments with glob
// syntax (including "**") are matched against the files below their static
// prefix; a pattern with no match, like any plain path, is returned as given
// so that reading it reports the error.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, globMeta) {
			out = appendUnique(out, arg)
			continue
		}

		matches, err := glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			out = appendUnique(out, arg)
			continue
		}
		for _, m := range matches {
			out = appendUnique(out, m)
		}
	}
	return out, nil
}

func glob(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(filepath.Clean(pattern))
	base := staticPrefix(slashed)
	var matches []string
	err := filepath.WalkDir(filepath.FromSlash(base), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == filepath.FromSlash(base) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if isExcludedDir(d.Name()) && path != filepath.FromSlash(base) {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := doublestar.Match(slashed, filepath.ToSlash(path))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", pattern, err)
	}

	slices.Sort(matches)
	return matches, nil
}

// staticPrefix is the directory part of pattern that holds no glob syntax.
func staticPrefix(pattern string) string {
	parts := strings.Split(pattern, "/")
	var static []string
	for _, p := range parts[:len(parts)-1] {
		if strings.ContainsAny(p, globMeta) {
			break
		}
		static = append(static, p)
	}
	if len(static) == 0 {
		return "."
	}
	base := strings.Join(static, "/")
	if base == "" {
		return "/"
	}
	return base
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
