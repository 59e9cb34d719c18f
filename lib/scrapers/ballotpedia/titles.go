package ballotpedia

import (
	"fmt"
	"strconv"
	"strings"

	"keyraces-backend/races"
)

// GenerateTitles produces the candidate page titles for a race, most
// specific first. The sequence is never empty: it always ends with the
// generic "{cycle}_elections_in_{state}" fallback.
func GenerateTitles(stateName string, office races.Office, cycle int, district string) []string {
	s := strings.ReplaceAll(stateName, " ", "_")

	var titles []string
	switch office {
	case races.OfficePresident:
		titles = append(titles,
			fmt.Sprintf("United_States_presidential_election,_%d", cycle))
	case races.OfficeSenate:
		titles = append(titles,
			fmt.Sprintf("%d_United_States_Senate_election_in_%s", cycle, s),
			fmt.Sprintf("United_States_Senate_election_in_%s,_%d", s, cycle))
	case races.OfficeGovernor:
		titles = append(titles,
			fmt.Sprintf("%s_gubernatorial_election,_%d", s, cycle),
			fmt.Sprintf("%d_%s_gubernatorial_election", cycle, s))
	case races.OfficeHouse:
		if district != "" {
			titles = append(titles, fmt.Sprintf(
				"%d_United_States_House_of_Representatives_election_in_%s's_%s_congressional_district",
				cycle, s, ordinal(district)))
		}
		titles = append(titles, fmt.Sprintf(
			"%d_United_States_House_of_Representatives_elections_in_%s", cycle, s))
	}

	titles = append(titles, fmt.Sprintf("%d_elections_in_%s", cycle, s))
	return titles
}

// ordinal renders a numeric district as an English ordinal. Non-numeric
// districts ("at-large") pass through unchanged.
func ordinal(district string) string {
	n, err := strconv.Atoi(district)
	if err != nil {
		return district
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
