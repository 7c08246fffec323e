package migrate

import (
	"fmt"
	"io"

	"github.com/toothbrush/confluence-migrate/internal/termfmt"
)

var (
	okMark     = termfmt.Fg(termfmt.Green).Bold()
	failMark   = termfmt.Fg(termfmt.Red).Bold()
	warnMark   = termfmt.Fg(termfmt.Yellow)
	spaceStyle = termfmt.Bold()
)

// PrintSummary writes a short human-readable account of a run: one line per space, followed by its
// failures and warnings.
func PrintSummary(w io.Writer, results []SpaceResult) {
	for _, r := range results {
		mark := okMark.V("✓")
		if !r.OK() {
			mark = failMark.V("✗")
		}

		created := ""
		if r.SpaceCreated {
			created = " (space created)"
		}

		fmt.Fprintf(w, "%s %s%s: %d pages, %d attachments, %d labels, %d comments\n",
			mark, spaceStyle.V(r.SpaceKey), created, r.Pages, r.Attachments, r.Labels, r.Comments)

		for _, f := range r.Failures {
			fmt.Fprintf(w, "    %s %s\n", failMark.V("✗"), f)
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "    %s %s\n", warnMark.V("!"), warning)
		}
	}
}
