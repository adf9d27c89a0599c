package formatter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/xmazu/envy/internal/envfile"
)

var ErrUnknownDupePolicy = errors.New("unknown duplicate policy")

type DupePolicy string

const (
	KeepFirst DupePolicy = "keep-first"
	KeepLast  DupePolicy = "keep-last"
)

func ParseDupePolicy(s string) (DupePolicy, error) {
	switch p := DupePolicy(s); p {
	case KeepFirst, KeepLast:
		return p, nil
	case "":
		return KeepFirst, nil
	default:
		return "", fmt.Errorf("%w %q: must be %s or %s", ErrUnknownDupePolicy, s, KeepFirst, KeepLast)
	}
}

type Options struct {
	Dupes  DupePolicy
	DryRun bool
}

// Change is one entry of the dry-run report. Old and New are empty when the
// line has no before or after form.
type Change struct {
	Line int    `json:"line"`
	Old  string `json:"old,omitempty"`
	New  string `json:"new,omitempty"`
	Note string `json:"note"`
}

type Warning struct {
	Line    int
	Message string
}

type Result struct {
	Text        string
	Reformatted int
	Duplicates  int
	Invalid     int
	Changes     []Change
	Warnings    []Warning
}

type state struct {
	opts   Options
	seen   map[string]bool
	output []string
	result *Result
}

// Format normalizes lines and returns the new file content with counters.
// The same text is produced with or without DryRun; DryRun records Changes
// for a preview instead of Warnings.
func Format(lines []envfile.Line, opts Options) *Result {
	if opts.Dupes == "" {
		opts.Dupes = KeepFirst
	}

	s := &state{
		opts:   opts,
		seen:   make(map[string]bool),
		result: &Result{},
	}

	ordered := lines
	reverse := opts.Dupes == KeepLast
	if reverse {
		ordered = slices.Clone(lines)
		slices.Reverse(ordered)
	}

	for _, line := range ordered {
		switch l := line.(type) {
		case envfile.Comment:
			s.emit(l.Text)
		case envfile.Empty:
			s.emit("")
		case envfile.KeyValue:
			s.keyValue(l)
		case envfile.Invalid:
			s.invalid(l)
		default:
			panic(fmt.Sprintf("formatter: unexpected line type %T", line))
		}
	}

	if reverse {
		slices.Reverse(s.output)
	}

	var b strings.Builder
	for _, out := range s.output {
		b.WriteString(out)
		b.WriteByte('\n')
	}
	s.result.Text = b.String()

	slices.SortStableFunc(s.result.Changes, func(a, b Change) int { return a.Line - b.Line })
	slices.SortStableFunc(s.result.Warnings, func(a, b Warning) int { return a.Line - b.Line })

	return s.result
}

func (s *state) emit(line string) {
	s.output = append(s.output, line)
}

func (s *state) change(c Change) {
	if s.opts.DryRun {
		s.result.Changes = append(s.result.Changes, c)
	}
}

func (s *state) warn(line int, format string, args ...any) {
	if !s.opts.DryRun {
		s.result.Warnings = append(s.result.Warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
	}
}

func (s *state) keyValue(kv envfile.KeyValue) {
	if kv.Name() == "" {
		s.invalid(envfile.Invalid{Num: kv.Num, Raw: withComment(kv.Key+"="+kv.Value, kv.InlineComment)})
		return
	}

	key := kv.Key
	if kv.HasExport {
		key = strings.TrimPrefix(key, "export ")
		s.change(Change{
			Line: kv.Num,
			Old:  kv.Key + "=" + kv.Value,
			New:  key + "=" + kv.Value,
			Note: "export prefix removed",
		})
	}

	name := strings.TrimSpace(key)
	if s.seen[name] {
		s.result.Duplicates++
		s.change(Change{
			Line: kv.Num,
			Old:  key + "=" + kv.Value,
			Note: "line removed - duplicate key",
		})
		s.warn(kv.Num, "Removed duplicate key: %s", name)
		return
	}

	if envfile.ContainsSpace(key) || (envfile.ContainsSpace(kv.Value) && !kv.HasInlineComment()) {
		normalized := withComment(name+"="+strings.TrimSpace(kv.Value), kv.InlineComment)
		s.change(Change{
			Line: kv.Num,
			Old:  withComment(key+"="+kv.Value, kv.InlineComment),
			New:  normalized,
			Note: "removed extra spaces",
		})
		s.emit(normalized)
		s.seen[name] = true
		s.result.Reformatted++
		return
	}

	s.emit(withComment(key+"="+kv.Value, kv.InlineComment))
	s.seen[name] = true
	s.result.Reformatted++
}

func (s *state) invalid(l envfile.Invalid) {
	s.result.Invalid++
	s.change(Change{
		Line: l.Num,
		Old:  l.Raw,
		Note: "line removed - invalid syntax",
	})
	s.warn(l.Num, "Skipping invalid line: %s", l.Raw)
}

func withComment(line, comment string) string {
	if comment == "" {
		return line
	}
	return line + " " + comment
}
