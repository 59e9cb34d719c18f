// Package ballotpedia resolves likely Ballotpedia page titles for a
// race and extracts dates, candidates, race ratings and research links
// from the pages behind them.
package ballotpedia

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

var tracer = telemetry.Tracer("keyraces.scrapers.ballotpedia")

const Host = "ballotpedia.org"
const DefaultBaseUrl = "https://ballotpedia.org"

const titleSuffix = " - Ballotpedia"

// maximum outbound links harvested from an "External links" section
const maxExternalLinks = 6

const datePattern = `[A-Z][a-z]+\s+\d{1,2},\s+\d{4}|[A-Z][a-z]+\s+\d{4}`

var primaryDateRegex = regexp.MustCompile(
	`Primary\s+(?:election\s+)?(?:date|day)?:?\s*(` + datePattern + `)`)
var generalDateRegex = regexp.MustCompile(
	`General\s+(?:election\s+)?(?:date|day)?:?\s*(` + datePattern + `)`)

// Extract parses one page's markup into the outcome's race fields.
// Sub-extractions are independently best-effort; a miss leaves the
// field unset and never aborts the others.
func Extract(ctx context.Context, markup string, out *races.Outcome) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		out.Notef("failed to parse page markup: %s", err)
		return
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		out.Race.Title = strings.TrimSpace(strings.TrimSuffix(title, titleSuffix))
	}

	text := htmlutil.VisibleText(doc.Selection)

	if m := primaryDateRegex.FindStringSubmatch(text); m != nil {
		out.Race.PrimaryDate = m[1]
	}
	if m := generalDateRegex.FindStringSubmatch(text); m != nil {
		out.Race.ElectionDate = m[1]
	}

	for _, cand := range scrapeutil.CandidatesFromHeading(doc, Host) {
		out.Race.AddCandidate(cand)
	}
	if len(out.Race.Candidates) == 0 {
		out.Notes = append(out.Notes, "No candidates parsed; structure may differ")
	}
	out.Notes = append(out.Notes, scrapeutil.NearDuplicateNotes(out.Race.Candidates)...)

	if rating := extractRating(text); rating != "" {
		out.Notef("ratings: %s", rating)
	}

	out.Race.ResearchLinks = append(out.Race.ResearchLinks, externalLinks(doc)...)
}

const ratingPattern = `Toss[-\s]?up|Lean\s+[DRI]|Likely\s+[DRI]|Safe\s+[DRI]`

var outletRatingRegex = regexp.MustCompile(
	`(?i)(Cook|Inside Elections|Sabato).*?(` + ratingPattern + `)`)
var labeledRatingRegex = regexp.MustCompile(
	`(?i)Race\s+ratings?:\s*(` + ratingPattern + `)`)

// extractRating recognizes a fixed outlet/category vocabulary; phrasing
// outside it is silently missed rather than guessed at.
func extractRating(text string) string {
	if m := outletRatingRegex.FindStringSubmatch(text); m != nil {
		return m[1] + ": " + m[2]
	}
	if m := labeledRatingRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// externalLinks harvests up to a handful of outbound links from the
// page's "External links" section.
func externalLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(`span[id^="External_links"]`).EachWithBreak(func(_ int, span *goquery.Selection) bool {
		heading := span.Nodes[0].Parent
		if heading == nil {
			return true
		}
		list := htmlutil.NextInDocument(heading, "ul", "ol")
		if list == nil {
			return true
		}
		for _, anchor := range htmlutil.GetAnchors(scrapeutil.Selection(list).Find("a")) {
			if !strings.HasPrefix(anchor.Href, "http") {
				continue
			}
			links = append(links, anchor.Href)
			if len(links) >= maxExternalLinks {
				break
			}
		}
		return false
	})
	return links
}
