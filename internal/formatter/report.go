package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xmazu/envy/internal/tui"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Width is the gutter width needed to print line numbers up to n.
func Width(n int) int {
	return len(strconv.Itoa(n))
}

// WritePreview prints changes as a diff-like listing:
//
//	 3 | - KEY =value
//	   | + KEY=value
//	   | (removed extra spaces)
func WritePreview(w io.Writer, changes []Change, width int) {
	for _, c := range changes {
		if c.Old != "" {
			fmt.Fprintf(w, "%*d | %s\n", width, c.Line, tui.Error("- "+c.Old))
		}
		if c.New != "" {
			fmt.Fprintf(w, "%*s | %s\n", width, "", tui.Success("+ "+c.New))
		}
		if c.Note != "" {
			fmt.Fprintf(w, "%*s | %s\n", width, "", tui.Muted("("+c.Note+")"))
		}
		fmt.Fprintln(w)
	}
}

func WriteSummary(w io.Writer, r *Result, dupes DupePolicy) {
	var b strings.Builder
	fmt.Fprintln(&b, tui.Muted(rule))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, tui.Label("Summary:"))
	fmt.Fprintf(&b, " • %d lines reformatted\n", r.Reformatted)
	fmt.Fprintf(&b, " • %d duplicate keys removed (%s)\n", r.Duplicates, dupes)
	fmt.Fprintf(&b, " • %d invalid lines removed\n", r.Invalid)
	io.WriteString(w, b.String())
}
