package envfile

import "regexp"

var referencePattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)

// ExtractReferences returns the names used in ${NAME} tokens of value, in
// order of first appearance and without repeats.
func ExtractReferences(value string) []string {
	matches := referencePattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		refs = append(refs, name)
	}
	return refs
}
