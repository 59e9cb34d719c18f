package cmd

import (
	"os"
	"strings"

	"keyraces-backend/races"

	"github.com/jedib0t/go-pretty/v6/table"
)

// printSummary renders a per-target overview of the run before any
// filtering, so truncated or errored targets are still visible.
func printSummary(outcomes []races.Outcome) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stderr)
	t.AppendHeader(table.Row{"Race", "Candidates", "Primary", "General", "Notes", "Errors"})

	for _, out := range outcomes {
		t.AppendRow(table.Row{
			out.RaceId,
			len(out.Race.Candidates),
			orDash(out.Race.PrimaryDate),
			orDash(out.Race.ElectionDate),
			len(out.Notes),
			strings.Join(out.Errors, "; "),
		})
	}

	t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
