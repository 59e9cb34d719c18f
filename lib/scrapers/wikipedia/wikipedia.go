// Package wikipedia extracts race fields from Wikipedia election pages
// fetched through the REST HTML endpoint.
package wikipedia

import (
	"context"
	"regexp"
	"strings"

	"keyraces-backend/lib/htmlutil"
	"keyraces-backend/lib/scrapers/scrapeutil"
	"keyraces-backend/lib/telemetry"
	"keyraces-backend/races"

	"github.com/PuerkitoBio/goquery"
)

var tracer = telemetry.Tracer("keyraces.scrapers.wikipedia")

// Host identifies links back to the source site; such links are never
// treated as candidate websites.
const Host = "wikipedia.org"

// DefaultBaseUrl is the production endpoint; tests point the fetch
// client elsewhere.
const DefaultBaseUrl = "https://en.wikipedia.org"

// PagePath builds the REST HTML path for an explicit page title.
func PagePath(title string) string {
	return "/api/rest_v1/page/html/" + strings.ReplaceAll(title, " ", "%20")
}

var generalDateRegex = regexp.MustCompile(`(?i)(election|general)\s+date`)
var primaryDateRegex = regexp.MustCompile(`(?i)primary`)

// Extract parses one page's markup into the outcome's race fields.
// Every sub-extraction is independently best-effort: a miss leaves the
// field unset and at most appends a note.
func Extract(ctx context.Context, markup string, out *races.Outcome) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		out.Notef("failed to parse page markup: %s", err)
		return
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		out.Race.Title = title
	}

	extractDates(doc, out)
	extractCandidates(doc, out)

	out.Notes = append(out.Notes, scrapeutil.NearDuplicateNotes(out.Race.Candidates)...)
}

// extractDates scans infobox rows for date labels. First match wins.
func extractDates(doc *goquery.Document, out *races.Outcome) {
	doc.Find(".infobox").First().Find("tr, div, p").Each(func(_ int, row *goquery.Selection) {
		text := htmlutil.VisibleText(row)
		if text == "" {
			return
		}
		if out.Race.ElectionDate == "" && generalDateRegex.MatchString(text) {
			out.Race.ElectionDate = scrapeutil.ExtractDate(text)
		}
		if out.Race.PrimaryDate == "" && primaryDateRegex.MatchString(text) {
			out.Race.PrimaryDate = scrapeutil.ExtractDate(text)
		}
	})
}

func extractCandidates(doc *goquery.Document, out *races.Outcome) {
	for _, cand := range scrapeutil.CandidatesFromHeading(doc, Host) {
		out.Race.AddCandidate(cand)
	}

	// no heading-based block: scan the first few short lists on the
	// page, which usually cover the infobox nominee summary
	if len(out.Race.Candidates) == 0 {
		doc.Find("ul").EachWithBreak(func(i int, list *goquery.Selection) bool {
			if i >= 5 {
				return false
			}
			items := htmlutil.ChildElements(list.Nodes[0], "li")
			if len(items) == 0 || len(items) > 6 {
				return true
			}
			for _, li := range items {
				cand, ok := scrapeutil.CandidateFromItem(scrapeutil.Selection(li), Host)
				if ok {
					out.Race.AddCandidate(cand)
				}
			}
			return true
		})
	}

	if len(out.Race.Candidates) == 0 {
		out.Notes = append(out.Notes, "No candidates parsed; structure may differ")
	}
}
