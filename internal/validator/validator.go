package validator

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xmazu/envy/internal/envfile"
)

const DefaultExampleFile = ".env.example"

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Kind string

const (
	KindMissingRequired Kind = "missing_required"
	KindInvalidLine     Kind = "invalid_line"
	KindDuplicateKey    Kind = "duplicate_key"
	KindKeySpaces       Kind = "key_spaces"
	KindValueSpaces     Kind = "value_spaces"
	KindEmptyKey        Kind = "empty_key"
	KindEmptyValue      Kind = "empty_value"
	KindUndefinedRef    Kind = "undefined_reference"
)

type Issue struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Key      string   `json:"key,omitempty"`
	Ref      string   `json:"ref,omitempty"`
	Raw      string   `json:"raw,omitempty"`
	Lines    []int    `json:"lines,omitempty"`
	Message  string   `json:"message"`
}

type Options struct {
	ErrorMode bool
	// Required lists keys that must be defined; nil skips the check.
	Required []string
}

type Report struct {
	Issues   []Issue
	HasError bool
	Valid    bool
}

// Passed reports whether no issue of any severity was found.
func (r *Report) Passed() bool {
	return len(r.Issues) == 0
}

func (r *Report) Count(s Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == s {
			n++
		}
	}
	return n
}

// Validate checks lines for structural problems. Only duplicate keys, empty
// keys and empty values count as errors; Valid is false only when ErrorMode
// is set and such an error was found.
func Validate(lines []envfile.Line, opts Options) *Report {
	r := &Report{}

	defined := envfile.KeySet(lines)
	for _, key := range opts.Required {
		if !defined[key] {
			r.add(Issue{
				Kind:     KindMissingRequired,
				Severity: SeverityWarning,
				Key:      key,
				Message:  fmt.Sprintf("Missing required key %s", key),
			})
		}
	}

	var order []string
	byKey := make(map[string][]envfile.KeyValue)
	for _, line := range lines {
		switch l := line.(type) {
		case envfile.Invalid:
			r.add(Issue{
				Kind:     KindInvalidLine,
				Severity: SeverityInfo,
				Raw:      l.Raw,
				Lines:    []int{l.Num},
				Message:  fmt.Sprintf("Invalid line: `%s` (line %d)", l.Raw, l.Num),
			})
		case envfile.KeyValue:
			name := l.Name()
			if _, ok := byKey[name]; !ok {
				order = append(order, name)
			}
			byKey[name] = append(byKey[name], l)
		case envfile.Comment, envfile.Empty:
		default:
			panic(fmt.Sprintf("validator: unexpected line type %T", line))
		}
	}

	for _, name := range order {
		r.checkKey(name, byKey[name])
	}

	for _, line := range lines {
		kv, ok := line.(envfile.KeyValue)
		if !ok {
			continue
		}
		for _, ref := range kv.References {
			if defined[ref] {
				continue
			}
			r.add(Issue{
				Kind:     KindUndefinedRef,
				Severity: SeverityWarning,
				Key:      kv.Name(),
				Ref:      ref,
				Lines:    []int{kv.Num},
				Message:  fmt.Sprintf("Variable `%s` references undefined variable `${%s}` (line %d)", kv.Name(), ref, kv.Num),
			})
		}
	}

	r.Valid = !(opts.ErrorMode && r.HasError)
	return r
}

func (r *Report) checkKey(name string, entries []envfile.KeyValue) {
	if len(entries) > 1 {
		nums := make([]int, 0, len(entries))
		strs := make([]string, 0, len(entries))
		for _, kv := range entries {
			nums = append(nums, kv.Num)
			strs = append(strs, fmt.Sprint(kv.Num))
		}
		r.add(Issue{
			Kind:     KindDuplicateKey,
			Severity: SeverityError,
			Key:      name,
			Lines:    nums,
			Message:  fmt.Sprintf("Duplicate key: `%s` (lines %s)", name, strings.Join(strs, ", ")),
		})
	}

	for _, kv := range entries {
		key := kv.Key
		if kv.HasExport {
			key = strings.TrimPrefix(key, "export ")
		}

		if envfile.ContainsSpace(key) {
			r.add(Issue{
				Kind:     KindKeySpaces,
				Severity: SeverityWarning,
				Key:      name,
				Lines:    []int{kv.Num},
				Message:  fmt.Sprintf("Invalid key `%s` contains spaces (line %d)", name, kv.Num),
			})
		}

		if envfile.ContainsSpace(kv.Value) && !kv.HasInlineComment() {
			r.add(Issue{
				Kind:     KindValueSpaces,
				Severity: SeverityWarning,
				Key:      name,
				Lines:    []int{kv.Num},
				Message:  fmt.Sprintf("Warning: value for key `%s` contains spaces - consider quoting it (line %d)", name, kv.Num),
			})
		}

		if name == "" {
			r.add(Issue{
				Kind:     KindEmptyKey,
				Severity: SeverityError,
				Lines:    []int{kv.Num},
				Message:  fmt.Sprintf("Empty key found at line %d", kv.Num),
			})
		}

		if strings.TrimSpace(kv.Value) == "" {
			sev := SeverityError
			if kv.HasInlineComment() {
				sev = SeverityWarning
			}
			r.add(Issue{
				Kind:     KindEmptyValue,
				Severity: sev,
				Key:      name,
				Lines:    []int{kv.Num},
				Message:  fmt.Sprintf("Empty value for key `%s` (line %d)", name, kv.Num),
			})
		}
	}
}

func (r *Report) add(is Issue) {
	if is.Severity == SeverityError {
		r.HasError = true
	}
	r.Issues = append(r.Issues, is)
}

// ExamplePath returns the example file that sits next to target.
func ExamplePath(target, name string) string {
	if name == "" {
		name = DefaultExampleFile
	}
	return filepath.Join(filepath.Dir(target), name)
}

// RequiredKeys returns the keys named in the example file at path. Blank
// template entries such as "KEY=" count as keys even though they do not
// parse as assignments.
func RequiredKeys(path string) ([]string, error) {
	lines, err := envfile.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("read required keys: %w", err)
	}
	var keys []string
	for _, l := range lines {
		var key string
		switch l := l.(type) {
		case envfile.KeyValue:
			key = l.Name()
		case envfile.Invalid:
			key = templateKey(l.Raw)
		}
		if key != "" && !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func templateKey(raw string) string {
	content, _ := envfile.SplitInlineComment(raw)
	key, _, ok := strings.Cut(content, "=")
	if !ok {
		return ""
	}
	key = strings.TrimSpace(key)
	if rest, found := strings.CutPrefix(key, "export "); found {
		key = strings.TrimSpace(rest)
	}
	return key
}
