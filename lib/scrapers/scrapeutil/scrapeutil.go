// Package scrapeutil holds the extraction heuristics shared by the
// per-site scrapers: candidate list parsing, date sniffing and research
// query synthesis. Every function here is a pure function of its input
// text or nodes; parse misses yield zero values, never errors.
package scrapeutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"keyraces-backend/lib/htmlutil"
	"keyraces-backend/lib/textutil"
	"keyraces-backend/races"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"golang.org/x/net/html"
)

var dateFullRegex = regexp.MustCompile(`[A-Z][a-z]+\s+\d{1,2},\s+\d{4}`)
var dateMonthYearRegex = regexp.MustCompile(`[A-Z][a-z]+\s+\d{4}`)

// ExtractDate pulls the first "Month Day, Year" date out of text,
// falling back to "Month Year". No calendar validation is applied; the
// matched text is returned as scraped. "" means no date present.
func ExtractDate(text string) string {
	if m := dateFullRegex.FindString(text); m != "" {
		return m
	}
	return dateMonthYearRegex.FindString(text)
}

// Selection wraps a raw html node so goquery selectors apply to it.
func Selection(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// CandidateFromItem parses one list item (or table cell) into a
// candidate. The name is the text of the first bold/strong/link element,
// else the text before the first dash separator. The party is the first
// parenthesized group. The website is the first outbound link whose host
// is not the source site itself.
func CandidateFromItem(item *goquery.Selection, sourceHost string) (races.Candidate, bool) {
	text := htmlutil.VisibleText(item)
	if text == "" {
		return races.Candidate{}, false
	}

	name := ""
	if lead := item.Find("b, strong").First(); lead.Length() > 0 {
		name = textutil.CollapseWhitespace(lead.Text())
	} else if a := item.Find("a").First(); a.Length() > 0 {
		name = textutil.CollapseWhitespace(a.Text())
	}
	if name == "" {
		name = textutil.BeforeDash(text)
	}
	if name == "" {
		return races.Candidate{}, false
	}

	website := ""
	for _, anchor := range htmlutil.GetAnchors(item.Find("a")) {
		if !isOutbound(anchor.Href, sourceHost) {
			continue
		}
		website = anchor.Href
		break
	}

	return races.Candidate{
		Name:    name,
		Party:   textutil.FirstParenthesized(text),
		Website: website,
	}, true
}

func isOutbound(href, sourceHost string) bool {
	link, err := url.Parse(href)
	if err != nil {
		return false
	}
	if link.Scheme != "http" && link.Scheme != "https" {
		return false
	}
	host := link.Hostname()
	return host != "" && !strings.HasSuffix(host, sourceHost)
}

// CandidatesFromHeading locates the first h2/h3/h4 whose text contains
// "candidate" (case-insensitive) and parses the following list or table
// into candidates. Returns nil when no such block exists.
func CandidatesFromHeading(doc *goquery.Document, sourceHost string) []races.Candidate {
	var out []races.Candidate

	doc.Find("h2, h3, h4").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.ToLower(htmlutil.VisibleText(heading))
		if !strings.Contains(text, "candidate") {
			return true
		}

		block := htmlutil.NextInDocument(heading.Nodes[0], "ul", "ol", "table")
		if block == nil {
			return false
		}
		switch block.Data {
		case "ul", "ol":
			out = candidatesFromList(block, sourceHost)
		case "table":
			out = candidatesFromTable(block, sourceHost)
		}
		// only the first candidate heading is parsed
		return false
	})

	return out
}

func candidatesFromList(list *html.Node, sourceHost string) []races.Candidate {
	var out []races.Candidate
	for _, li := range htmlutil.ChildElements(list, "li") {
		cand, ok := CandidateFromItem(Selection(li), sourceHost)
		if ok {
			out = append(out, cand)
		}
	}
	return out
}

func candidatesFromTable(table *html.Node, sourceHost string) []races.Candidate {
	var out []races.Candidate
	Selection(table).Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() == 0 {
			return
		}
		first := cells.First()
		label := strings.ToLower(htmlutil.VisibleText(first))
		if strings.Contains(label, "candidate") || strings.Contains(label, "name") {
			// header row
			return
		}
		cand, ok := CandidateFromItem(first, sourceHost)
		if ok {
			out = append(out, cand)
		}
	})
	return out
}

// NearDuplicateNotes flags candidate pairs whose normalized names are
// within an edit distance of 2 without being equal. The pairs are only
// reported, never merged; exact dedup already happened upstream.
func NearDuplicateNotes(candidates []races.Candidate) []string {
	var notes []string
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a := textutil.NormalizeName(candidates[i].Name)
			b := textutil.NormalizeName(candidates[j].Name)
			d := matchr.DamerauLevenshtein(a, b)
			if d > 0 && d <= 2 {
				notes = append(notes, fmt.Sprintf(
					"candidate names look similar: %q / %q",
					candidates[i].Name, candidates[j].Name,
				))
			}
		}
	}
	return notes
}

// ResearchQueries synthesizes the fixed set of search-engine fallback
// links for a race, appended to every outcome regardless of how much
// extraction succeeded.
func ResearchQueries(r races.Race) []string {
	label := fmt.Sprintf("%s %s %d", r.State, r.Office, r.Cycle)
	if r.District != "" {
		label += " district " + r.District
	}
	return []string{
		"https://www.google.com/search?q=" + url.QueryEscape("Ballotpedia "+label),
		"https://www.google.com/search?q=" + url.QueryEscape(
			r.State+" Secretary of State elections calendar "+strconv.Itoa(r.Cycle)),
		"https://www.google.com/search?q=" + url.QueryEscape(label+" official candidate list"),
	}
}
