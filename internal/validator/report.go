package validator

import (
	"fmt"
	"io"

	"github.com/xmazu/envy/internal/tui"
)

func WriteReport(w io.Writer, r *Report) {
	for _, is := range r.Issues {
		var marker string
		switch is.Severity {
		case SeverityError:
			marker = tui.Error("✗")
		case SeverityWarning:
			marker = tui.Warning("!")
		default:
			marker = tui.Muted("·")
		}
		fmt.Fprintf(w, "%s %s\n", marker, is.Message)
	}

	if r.Passed() {
		fmt.Fprintf(w, "%s Validation passed: no issues found\n", tui.Success("✓"))
		return
	}

	fmt.Fprintf(w, "\n%d errors, %d warnings\n", r.Count(SeverityError), r.Count(SeverityWarning))
}
