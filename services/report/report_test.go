package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"keyraces-backend/races"

	"github.com/stretchr/testify/require"
)

func scrapedOutcome() races.Outcome {
	return races.Outcome{
		RaceId: "ca-senate-2024",
		Race: races.Race{
			Id:           "ca-senate-2024",
			Cycle:        2024,
			Office:       races.OfficeSenate,
			State:        "CA",
			Title:        "United States Senate election in California, 2024",
			PrimaryDate:  "March 5, 2024",
			ElectionDate: "November 5, 2024",
			Candidates: []races.Candidate{
				{Name: "Adam Schiff", Party: "Democratic", Website: "https://adamschiff.com"},
				{Name: "Steve Garvey", Party: "Republican"},
			},
			Sources: map[string]string{
				"ballotpedia": "https://ballotpedia.org/United_States_Senate_election_in_California,_2024",
			},
			ResearchLinks: []string{"https://www.google.com/search?q=Ballotpedia+CA+SENATE+2024"},
		},
		Notes: []string{"ratings: Cook: Likely D"},
	}
}

func TestFormatText(t *testing.T) {
	text := FormatText([]races.Outcome{scrapedOutcome()}, nil)

	require.True(t, strings.HasPrefix(text, Title+"\n"))
	require.Contains(t, text, "- CA SENATE (2024)")
	require.Contains(t, text, "  Primary: March 5, 2024")
	require.Contains(t, text, "  General: November 5, 2024")
	require.Contains(t, text, "    - Adam Schiff (Democratic) — https://adamschiff.com")
	require.Contains(t, text, "    - Steve Garvey (Republican)")
	require.Contains(t, text, "  Ballotpedia: https://ballotpedia.org/United_States_Senate_election_in_California,_2024")
	require.Contains(t, text, "  Notes: ratings: Cook: Likely D")
	require.NotContains(t, text, "Errors:")
}

func TestFormatTextNoCandidates(t *testing.T) {
	out := races.Outcome{
		Race:   races.Race{Cycle: 2026, Office: races.OfficeHouse, State: "TX", District: "3"},
		Errors: []string{"No Ballotpedia page found"},
	}
	text := FormatText([]races.Outcome{out}, nil)

	require.Contains(t, text, "- TX HOUSE (2026), District 3")
	require.Contains(t, text, "  Candidates: Unknown (see research links)")
	require.Contains(t, text, "  Errors: No Ballotpedia page found")
}

func TestFormatTextCuratedFirst(t *testing.T) {
	curated := []CuratedRace{{
		Race:         "Pennsylvania Senate",
		Jurisdiction: "PA",
		Office:       "SENATE",
		Candidates:   "A. Incumbent (D) vs. B. Challenger (R)",
		Rating:       "Toss-up",
		WhyItMatters: "Control of the chamber",
		Sources:      []string{"https://example.org/pa"},
	}}
	text := FormatText([]races.Outcome{scrapedOutcome()}, curated)

	curatedAt := strings.Index(text, "- Pennsylvania Senate")
	scrapedAt := strings.Index(text, "- CA SENATE (2024)")
	require.NotEqual(t, -1, curatedAt)
	require.NotEqual(t, -1, scrapedAt)
	require.Less(t, curatedAt, scrapedAt)

	require.Contains(t, text, "  Rating: Toss-up")
	require.Contains(t, text, "  Why it matters: Control of the chamber")
	require.Contains(t, text, "  Sources: https://example.org/pa")
}

func TestFormatHTMLEscapes(t *testing.T) {
	out := races.Outcome{
		Race: races.Race{
			Cycle:  2024,
			Office: races.OfficeGovernor,
			State:  "NC",
			Title:  `<script>alert("x")</script>`,
			Candidates: []races.Candidate{
				{Name: "A & B", Party: "D<R"},
			},
		},
	}
	page := FormatHTML([]races.Outcome{out}, "", nil)

	require.Contains(t, page, "<h1>"+Title+"</h1>")
	require.NotContains(t, page, "<script>alert")
	require.Contains(t, page, "&lt;script&gt;")
	require.Contains(t, page, "A &amp; B (D&lt;R)")
}

func TestLoadCuratedMissingFile(t *testing.T) {
	curated, err := LoadCurated(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Nil(t, curated)
}

func TestLoadCurated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curated.yaml")
	err := os.WriteFile(path, []byte(`
- race: Pennsylvania Senate
  jurisdiction: PA
  office: SENATE
  rating: Toss-up
  sources:
    - https://example.org/pa
`), 0644)
	require.NoError(t, err)

	curated, err := LoadCurated(path)
	require.NoError(t, err)
	require.Len(t, curated, 1)
	require.Equal(t, "Pennsylvania Senate", curated[0].Race)
	require.Equal(t, "Toss-up", curated[0].Rating)
	require.Equal(t, []string{"https://example.org/pa"}, curated[0].Sources)
}
