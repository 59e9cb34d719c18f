// Package report renders research outcomes as plain text and HTML,
// writes them to a static site directory and optionally emails them.
// Curated entries are authored by hand and always rendered ahead of
// scraped results; they are never merged into scraped races.
package report

import (
	"fmt"
	"html"
	"os"
	"strings"

	"keyraces-backend/races"

	"gopkg.in/yaml.v3"
)

// CuratedRace is an externally authored race summary included at the
// top of the report.
type CuratedRace struct {
	Race         string   `yaml:"race" json:"race"`
	Jurisdiction string   `yaml:"jurisdiction" json:"jurisdiction,omitempty"`
	Office       string   `yaml:"office" json:"office,omitempty"`
	Candidates   string   `yaml:"candidates" json:"candidates,omitempty"`
	Rating       string   `yaml:"rating" json:"rating,omitempty"`
	WhyItMatters string   `yaml:"why_it_matters" json:"why_it_matters,omitempty"`
	KeyDates     string   `yaml:"key_dates" json:"key_dates,omitempty"`
	LastMargin   string   `yaml:"last_margin" json:"last_margin,omitempty"`
	Sources      []string `yaml:"sources" json:"sources,omitempty"`
}

// LoadCurated reads the curated YAML file. A missing file is not an
// error; curated content is optional.
func LoadCurated(path string) ([]CuratedRace, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var curated []CuratedRace
	err = yaml.Unmarshal(contents, &curated)
	if err != nil {
		return nil, fmt.Errorf("parse curated %s: %w", path, err)
	}
	return curated, nil
}

const Title = "Key Races Weekly Report"

// FormatText renders the plain-text report: curated entries first, then
// one block per scraped outcome.
func FormatText(outcomes []races.Outcome, curated []CuratedRace) string {
	var lines []string
	lines = append(lines, Title, "")

	for _, c := range curated {
		lines = append(lines, curatedTextBlock(c)...)
		lines = append(lines, "")
	}
	for _, out := range outcomes {
		lines = append(lines, raceTextBlock(out)...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func curatedTextBlock(c CuratedRace) []string {
	l := []string{fmt.Sprintf("- %s", c.Race)}
	if c.Jurisdiction != "" || c.Office != "" {
		l = append(l, fmt.Sprintf("  %s %s", c.Jurisdiction, c.Office))
	}
	if c.Candidates != "" {
		l = append(l, "  Candidates: "+c.Candidates)
	}
	if c.Rating != "" {
		l = append(l, "  Rating: "+c.Rating)
	}
	if c.WhyItMatters != "" {
		l = append(l, "  Why it matters: "+c.WhyItMatters)
	}
	if c.KeyDates != "" {
		l = append(l, "  Key dates: "+c.KeyDates)
	}
	if c.LastMargin != "" {
		l = append(l, "  Last margin: "+c.LastMargin)
	}
	if len(c.Sources) > 0 {
		l = append(l, "  Sources: "+strings.Join(c.Sources, ", "))
	}
	return l
}

func raceTextBlock(out races.Outcome) []string {
	race := out.Race

	header := fmt.Sprintf("- %s %s (%d)", race.State, race.Office, race.Cycle)
	if race.District != "" {
		header += ", District " + race.District
	}
	l := []string{header}

	if race.Title != "" {
		l = append(l, "  Title: "+race.Title)
	}
	if race.PrimaryDate != "" {
		l = append(l, "  Primary: "+race.PrimaryDate)
	}
	if race.ElectionDate != "" {
		l = append(l, "  General: "+race.ElectionDate)
	}
	if len(race.Candidates) > 0 {
		l = append(l, "  Candidates:")
		for _, c := range race.Candidates {
			l = append(l, "    - "+candidateLine(c))
		}
	} else {
		l = append(l, "  Candidates: Unknown (see research links)")
	}
	for _, kind := range []string{"wikipedia", "ballotpedia"} {
		if url := race.Sources[kind]; url != "" {
			l = append(l, fmt.Sprintf("  %s: %s", sourceLabel(kind), url))
		}
	}
	if len(out.Notes) > 0 {
		l = append(l, "  Notes: "+strings.Join(out.Notes, "; "))
	}
	if len(out.Errors) > 0 {
		l = append(l, "  Errors: "+strings.Join(out.Errors, "; "))
	}
	if len(race.ResearchLinks) > 0 {
		l = append(l, "  Research:")
		for _, link := range race.ResearchLinks {
			l = append(l, "    - "+link)
		}
	}
	return l
}

func sourceLabel(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

func candidateLine(c races.Candidate) string {
	who := c.Name
	if c.Party != "" {
		who += fmt.Sprintf(" (%s)", c.Party)
	}
	if c.Website != "" {
		who += " — " + c.Website
	}
	return who
}

// FormatHTML renders the report as a standalone HTML document.
func FormatHTML(outcomes []races.Outcome, title string, curated []CuratedRace) string {
	if title == "" {
		title = Title
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>")
	b.WriteString(`<html lang="en"><head>`)
	b.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
	b.WriteString(`<link rel="stylesheet" href="style.css">`)
	b.WriteString("</head><body>")
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(title))

	for _, c := range curated {
		writeCuratedSection(&b, c)
	}
	for _, out := range outcomes {
		writeRaceSection(&b, out)
	}

	b.WriteString("</body></html>")
	return b.String()
}

func writeCuratedSection(b *strings.Builder, c CuratedRace) {
	b.WriteString(`<section class="race curated">`)
	fmt.Fprintf(b, "<h2>%s</h2>", html.EscapeString(c.Race))
	meta := func(label, value string) {
		if value != "" {
			fmt.Fprintf(b, `<div class="meta"><strong>%s:</strong> %s</div>`,
				label, html.EscapeString(value))
		}
	}
	meta("Jurisdiction", strings.TrimSpace(c.Jurisdiction+" "+c.Office))
	meta("Candidates", c.Candidates)
	meta("Rating", c.Rating)
	meta("Why it matters", c.WhyItMatters)
	meta("Key dates", c.KeyDates)
	meta("Last margin", c.LastMargin)
	meta("Sources", strings.Join(c.Sources, ", "))
	b.WriteString("</section>")
}

func writeRaceSection(b *strings.Builder, out races.Outcome) {
	race := out.Race

	header := fmt.Sprintf("%s %s (%d)", race.State, race.Office, race.Cycle)
	if race.District != "" {
		header += ", District " + race.District
	}

	b.WriteString(`<section class="race">`)
	fmt.Fprintf(b, "<h2>%s</h2>", html.EscapeString(header))

	if race.Title != "" {
		fmt.Fprintf(b, `<div class="meta"><strong>Title:</strong> %s</div>`, html.EscapeString(race.Title))
	}
	if race.PrimaryDate != "" {
		fmt.Fprintf(b, `<div class="meta"><strong>Primary:</strong> %s</div>`, html.EscapeString(race.PrimaryDate))
	}
	if race.ElectionDate != "" {
		fmt.Fprintf(b, `<div class="meta"><strong>General:</strong> %s</div>`, html.EscapeString(race.ElectionDate))
	}

	if len(race.Candidates) > 0 {
		b.WriteString("<div><strong>Candidates:</strong><ul>")
		for _, c := range race.Candidates {
			who := c.Name
			if c.Party != "" {
				who += fmt.Sprintf(" (%s)", c.Party)
			}
			if c.Website != "" {
				fmt.Fprintf(b, `<li>%s — <a href="%s">website</a></li>`,
					html.EscapeString(who), html.EscapeString(c.Website))
			} else {
				fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(who))
			}
		}
		b.WriteString("</ul></div>")
	} else {
		b.WriteString("<div><strong>Candidates:</strong> Unknown (see research links)</div>")
	}

	for _, kind := range []string{"wikipedia", "ballotpedia"} {
		if url := race.Sources[kind]; url != "" {
			fmt.Fprintf(b, `<div><strong>%s:</strong> <a href="%s">%s</a></div>`,
				sourceLabel(kind), html.EscapeString(url), html.EscapeString(url))
		}
	}
	if len(out.Notes) > 0 {
		fmt.Fprintf(b, `<div class="notes"><strong>Notes:</strong> %s</div>`,
			html.EscapeString(strings.Join(out.Notes, "; ")))
	}
	if len(out.Errors) > 0 {
		fmt.Fprintf(b, `<div class="errors"><strong>Errors:</strong> %s</div>`,
			html.EscapeString(strings.Join(out.Errors, "; ")))
	}
	if len(race.ResearchLinks) > 0 {
		b.WriteString("<div><strong>Research:</strong><ul>")
		for _, link := range race.ResearchLinks {
			fmt.Fprintf(b, `<li><a href="%s">%s</a></li>`,
				html.EscapeString(link), html.EscapeString(link))
		}
		b.WriteString("</ul></div>")
	}
	b.WriteString("</section>")
}
