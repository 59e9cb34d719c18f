package report

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"keyraces-backend/races"
)

// SiteOptions controls which artifacts a run writes into the static
// site directory.
type SiteOptions struct {
	OutDir    string
	WriteText bool
	WriteHTML bool
	WriteJSON bool
}

// WriteSite writes the run's report files into the output directory and
// regenerates index.html over every report present. Each run is
// idempotent given the same inputs; the index is rebuilt from the
// directory listing, not from any carried-over state.
func WriteSite(outcomes []races.Outcome, curated []CuratedRace, now time.Time, opts SiteOptions) error {
	err := os.MkdirAll(opts.OutDir, 0755)
	if err != nil {
		return err
	}

	ts := now.UTC().Format("2006-01-02_150405Z")
	base := "report-" + ts

	if opts.WriteText {
		text := FormatText(outcomes, curated)
		err = os.WriteFile(filepath.Join(opts.OutDir, base+".txt"), []byte(text), 0644)
		if err != nil {
			return err
		}
	}
	if opts.WriteHTML {
		page := FormatHTML(outcomes, fmt.Sprintf("%s — %s", Title, ts), curated)
		err = os.WriteFile(filepath.Join(opts.OutDir, base+".html"), []byte(page), 0644)
		if err != nil {
			return err
		}
	}
	if opts.WriteJSON {
		serialized, err := json.MarshalIndent(outcomes, "", "  ")
		if err != nil {
			return err
		}
		err = os.WriteFile(filepath.Join(opts.OutDir, base+".json"), serialized, 0644)
		if err != nil {
			return err
		}
	}

	index, err := buildIndex(opts.OutDir)
	if err != nil {
		return err
	}
	err = os.WriteFile(filepath.Join(opts.OutDir, "index.html"), []byte(index), 0644)
	if err != nil {
		return err
	}

	stylePath := filepath.Join(opts.OutDir, "style.css")
	if _, err := os.Stat(stylePath); os.IsNotExist(err) {
		return os.WriteFile(stylePath, []byte(defaultCss), 0644)
	}
	return nil
}

// buildIndex lists every report-*.html in the directory, newest first.
func buildIndex(dir string) (string, error) {
	reports, err := filepath.Glob(filepath.Join(dir, "report-*.html"))
	if err != nil {
		return "", err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(reports)))

	var items []string
	for _, p := range reports {
		name := filepath.Base(p)
		items = append(items, fmt.Sprintf(
			`<li><a href="%s">%s</a></li>`,
			html.EscapeString(name), html.EscapeString(name)))
	}
	body := "<li>No reports yet</li>"
	if len(items) > 0 {
		body = strings.Join(items, "\n")
	}

	return `<!DOCTYPE html><html lang="en"><head>` +
		`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">` +
		`<title>Key Races Reports</title><link rel="stylesheet" href="style.css"></head><body>` +
		`<h1>Key Races Reports</h1><ul>` + body + `</ul></body></html>`, nil
}

const defaultCss = `body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;max-width:860px;margin:2rem auto;padding:0 1rem;line-height:1.5}
.race{padding:1rem 0;border-top:1px solid #eee}
h1{font-size:1.75rem}
h2{font-size:1.2rem;margin-bottom:.25rem}
.meta{color:#444;margin:.1rem 0}
.notes{color:#555}
.errors{color:#a00}
`
