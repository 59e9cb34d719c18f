package ballotpedia

import (
	"fmt"
	"strings"
	"testing"

	"keyraces-backend/races"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestGenerateTitles(t *testing.T) {
	testCases := []struct {
		state    string
		office   races.Office
		cycle    int
		district string
		expected []string
	}{
		{
			state:  "California",
			office: races.OfficePresident,
			cycle:  2024,
			expected: []string{
				"United_States_presidential_election,_2024",
				"2024_elections_in_California",
			},
		},
		{
			state:  "California",
			office: races.OfficeSenate,
			cycle:  2024,
			expected: []string{
				"2024_United_States_Senate_election_in_California",
				"United_States_Senate_election_in_California,_2024",
				"2024_elections_in_California",
			},
		},
		{
			state:  "North Carolina",
			office: races.OfficeGovernor,
			cycle:  2024,
			expected: []string{
				"North_Carolina_gubernatorial_election,_2024",
				"2024_North_Carolina_gubernatorial_election",
				"2024_elections_in_North_Carolina",
			},
		},
		{
			state:    "Texas",
			office:   races.OfficeHouse,
			cycle:    2026,
			district: "3",
			expected: []string{
				"2026_United_States_House_of_Representatives_election_in_Texas's_3rd_congressional_district",
				"2026_United_States_House_of_Representatives_elections_in_Texas",
				"2026_elections_in_Texas",
			},
		},
		{
			state:  "Texas",
			office: races.OfficeHouse,
			cycle:  2026,
			expected: []string{
				"2026_United_States_House_of_Representatives_elections_in_Texas",
				"2026_elections_in_Texas",
			},
		},
		{
			// unknown office still yields the generic fallback
			state:  "Ohio",
			office: races.Office("MAYOR"),
			cycle:  2025,
			expected: []string{
				"2025_elections_in_Ohio",
			},
		},
	}

	for _, test := range testCases {
		titles := GenerateTitles(test.state, test.office, test.cycle, test.district)

		require.NotEmpty(t, titles)
		last := titles[len(titles)-1]
		require.True(
			t,
			strings.HasPrefix(last, fmt.Sprintf("%d_elections_in_", test.cycle)),
			"last title %q is not the generic fallback", last,
		)

		diff := cmp.Diff(test.expected, titles)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestOrdinal(t *testing.T) {
	testCases := map[string]string{
		"1":        "1st",
		"2":        "2nd",
		"3":        "3rd",
		"4":        "4th",
		"11":       "11th",
		"12":       "12th",
		"13":       "13th",
		"21":       "21st",
		"22":       "22nd",
		"23":       "23rd",
		"101":      "101st",
		"at-large": "at-large",
	}
	for in, expected := range testCases {
		require.Equal(t, expected, ordinal(in), "ordinal(%q)", in)
	}
}
