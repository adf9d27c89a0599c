package sorter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/xmazu/envy/internal/envfile"
)

var ErrUnknownMethod = errors.New("unknown sort method")

type Method string

const (
	Alpha Method = "alpha"
	Group Method = "group"
)

const miscGroup = "MISC"

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Alpha, Group:
		return m, nil
	case "":
		return Group, nil
	default:
		return "", fmt.Errorf("%w %q: must be %s or %s", ErrUnknownMethod, s, Alpha, Group)
	}
}

type entry struct {
	name string
	line string
}

// Sort returns the key/value lines of the file reordered by method.
// Comments, blank lines and invalid lines are not carried over.
func Sort(lines []envfile.Line, method Method) string {
	entries := collect(lines)

	var b strings.Builder
	if method == Alpha {
		sortEntries(entries)
		for _, e := range entries {
			b.WriteString(e.line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		return b.String()
	}

	groups := make(map[string][]entry)
	for _, e := range entries {
		label := GroupLabel(e.name)
		groups[label] = append(groups[label], e)
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	for _, label := range labels {
		members := groups[label]
		sortEntries(members)
		fmt.Fprintf(&b, "# %s\n", label)
		for _, e := range members {
			b.WriteString(e.line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// GroupLabel is the upper-cased part of key before the first underscore,
// or MISC when there is none.
func GroupLabel(key string) string {
	prefix, _, found := strings.Cut(key, "_")
	if !found || prefix == "" {
		return miscGroup
	}
	return strings.ToUpper(prefix)
}

func collect(lines []envfile.Line) []entry {
	var entries []entry
	for _, line := range lines {
		switch l := line.(type) {
		case envfile.KeyValue:
			entries = append(entries, entry{name: l.Name(), line: l.Key + "=" + l.Value})
		case envfile.Comment, envfile.Empty, envfile.Invalid:
		default:
			panic(fmt.Sprintf("sorter: unexpected line type %T", line))
		}
	}
	return entries
}

func sortEntries(entries []entry) {
	slices.SortStableFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.name, b.name)
	})
}
