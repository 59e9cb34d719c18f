// Package races holds the data model shared by the scraping services:
// the caller-supplied Target descriptors, the scraped Race records and
// the per-target Outcome bundles handed to the report renderer.
package races

import (
	"fmt"
	"os"
	"strings"

	"keyraces-backend/lib/textutil"

	"gopkg.in/yaml.v3"
)

type Office string

const (
	OfficePresident Office = "PRESIDENT"
	OfficeSenate    Office = "SENATE"
	OfficeGovernor  Office = "GOVERNOR"
	OfficeHouse     Office = "HOUSE"
)

// ParseOffice normalizes a config-supplied office label. Unknown values
// are preserved uppercased so they still render in reports.
func ParseOffice(s string) Office {
	return Office(strings.ToUpper(strings.TrimSpace(s)))
}

// SourceHint is an explicit page reference supplied with a target,
// bypassing title resolution for that source.
type SourceHint struct {
	Title string `yaml:"title" json:"title,omitempty"`
	Url   string `yaml:"url" json:"url,omitempty"`
}

// Target describes one race to research. Immutable once loaded.
type Target struct {
	Id        string     `yaml:"id" json:"id"`
	Cycle     int        `yaml:"cycle" json:"cycle"`
	Office    Office     `yaml:"office" json:"office"`
	State     string     `yaml:"state" json:"state"`
	District  string     `yaml:"district" json:"district,omitempty"`
	Wikipedia SourceHint `yaml:"wikipedia" json:"wikipedia,omitempty"`
}

// FallbackId returns the explicit id if present, otherwise a stable
// identifier derived from the descriptor fields.
func (t Target) FallbackId() string {
	if t.Id != "" {
		return t.Id
	}
	if t.Wikipedia.Title != "" {
		return t.Wikipedia.Title
	}
	if t.Wikipedia.Url != "" {
		return t.Wikipedia.Url
	}
	return fmt.Sprintf("%s-%s-%d", t.State, t.Office, t.Cycle)
}

// Label is the human-readable descriptor used in search queries and logs.
func (t Target) Label() string {
	label := fmt.Sprintf("%s %s %d", t.State, t.Office, t.Cycle)
	if t.District != "" {
		label += " district " + t.District
	}
	return label
}

type Candidate struct {
	Name    string            `json:"name"`
	Party   string            `json:"party,omitempty"`
	Website string            `json:"website,omitempty"`
	Contact map[string]string `json:"contact,omitempty"`
}

type Race struct {
	Id       string `json:"id"`
	Cycle    int    `json:"cycle"`
	Office   Office `json:"office"`
	State    string `json:"state"`
	District string `json:"district,omitempty"`

	// Title and the two dates are free-form text as scraped, never
	// parsed into calendar values. Empty string means "not found".
	Title        string `json:"title,omitempty"`
	PrimaryDate  string `json:"primary_date,omitempty"`
	ElectionDate string `json:"election_date,omitempty"`

	Candidates    []Candidate       `json:"candidates"`
	Sources       map[string]string `json:"sources,omitempty"`
	ResearchLinks []string          `json:"research_links,omitempty"`
}

// AddCandidate appends c unless a candidate with the same normalized name
// is already present. First-seen casing wins. Reports whether c was added.
func (r *Race) AddCandidate(c Candidate) bool {
	key := textutil.NormalizeName(c.Name)
	if key == "" {
		return false
	}
	for _, existing := range r.Candidates {
		if textutil.NormalizeName(existing.Name) == key {
			return false
		}
	}
	r.Candidates = append(r.Candidates, c)
	return true
}

func (r *Race) SetSource(kind, url string) {
	if r.Sources == nil {
		r.Sources = map[string]string{}
	}
	r.Sources[kind] = url
}

// Outcome is the per-target result bundle: the (possibly partial) race
// plus non-fatal notes and per-target errors. A race with only empty
// optional fields and at least one error is a valid terminal state.
type Outcome struct {
	RaceId string   `json:"race_id"`
	Race   Race     `json:"race"`
	Notes  []string `json:"notes"`
	Errors []string `json:"errors"`
}

// NewOutcome constructs the empty race + outcome pair for a target.
func NewOutcome(t Target) Outcome {
	id := t.FallbackId()
	return Outcome{
		RaceId: id,
		Race: Race{
			Id:       id,
			Cycle:    t.Cycle,
			Office:   t.Office,
			State:    strings.ToUpper(t.State),
			District: t.District,
		},
	}
}

func (o *Outcome) Notef(format string, args ...any) {
	o.Notes = append(o.Notes, fmt.Sprintf(format, args...))
}

func (o *Outcome) Errorf(format string, args ...any) {
	o.Errors = append(o.Errors, fmt.Sprintf(format, args...))
}

// HasContent reports whether any of the fields worth reporting were
// populated: candidates or either date.
func (o Outcome) HasContent() bool {
	return len(o.Race.Candidates) > 0 ||
		o.Race.PrimaryDate != "" ||
		o.Race.ElectionDate != ""
}

// LoadTargets reads the ordered target list from a YAML file.
func LoadTargets(path string) ([]Target, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var targets []Target
	err = yaml.Unmarshal(contents, &targets)
	if err != nil {
		return nil, fmt.Errorf("parse targets %s: %w", path, err)
	}
	for i := range targets {
		targets[i].Office = ParseOffice(string(targets[i].Office))
		targets[i].State = strings.ToUpper(strings.TrimSpace(targets[i].State))
	}
	return targets, nil
}
