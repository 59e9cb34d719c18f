package races

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestAddCandidateDedup(t *testing.T) {
	race := Race{}

	require.True(t, race.AddCandidate(Candidate{Name: "Jane Doe", Party: "D"}))
	require.False(t, race.AddCandidate(Candidate{Name: "JANE DOE", Party: "D"}))
	require.False(t, race.AddCandidate(Candidate{Name: "jane  doe"}))
	require.True(t, race.AddCandidate(Candidate{Name: "John Roe", Party: "R"}))
	require.False(t, race.AddCandidate(Candidate{Name: ""}))

	expected := []Candidate{
		{Name: "Jane Doe", Party: "D"},
		{Name: "John Roe", Party: "R"},
	}
	diff := cmp.Diff(expected, race.Candidates)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFallbackId(t *testing.T) {
	require.Equal(t, "ca-sen", Target{Id: "ca-sen", State: "CA"}.FallbackId())
	require.Equal(
		t, "Some Page",
		Target{Wikipedia: SourceHint{Title: "Some Page"}}.FallbackId(),
	)
	require.Equal(
		t, "CA-SENATE-2024",
		Target{State: "CA", Office: OfficeSenate, Cycle: 2024}.FallbackId(),
	)
}

func TestLabel(t *testing.T) {
	require.Equal(
		t, "CA SENATE 2024",
		Target{State: "CA", Office: OfficeSenate, Cycle: 2024}.Label(),
	)
	require.Equal(
		t, "TX HOUSE 2026 district 7",
		Target{State: "TX", Office: OfficeHouse, Cycle: 2026, District: "7"}.Label(),
	)
}

func TestParseOffice(t *testing.T) {
	require.Equal(t, OfficeSenate, ParseOffice(" senate "))
	require.Equal(t, OfficeGovernor, ParseOffice("Governor"))
	require.Equal(t, Office("MAYOR"), ParseOffice("mayor"))
}

func TestStateName(t *testing.T) {
	require.Equal(t, "California", StateName("CA"))
	require.Equal(t, "District of Columbia", StateName("DC"))
	require.Equal(t, "ZZ", StateName("ZZ"))
}

func TestHasContent(t *testing.T) {
	require.False(t, Outcome{}.HasContent())
	require.True(t, Outcome{Race: Race{PrimaryDate: "June 3, 2024"}}.HasContent())
	require.True(t, Outcome{Race: Race{ElectionDate: "November 5, 2024"}}.HasContent())
	require.True(t, Outcome{
		Race: Race{Candidates: []Candidate{{Name: "Jane Doe"}}},
	}.HasContent())
}

func TestNewOutcome(t *testing.T) {
	out := NewOutcome(Target{State: "ca", Office: OfficeSenate, Cycle: 2024})
	require.Equal(t, "CA", out.Race.State)
	require.Equal(t, out.RaceId, out.Race.Id)
	require.Empty(t, out.Errors)
	require.Empty(t, out.Notes)
}
