// Package keyraces drives the per-target research run: it resolves page
// titles, fetches pages under the shared budget and politeness delay,
// and hands markup to the extractors, collecting one outcome per target
// no matter how much of the extraction succeeded.
package keyraces

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"keyraces-backend/lib/fetch"
	"keyraces-backend/lib/scrapers/ballotpedia"
	"keyraces-backend/lib/scrapers/scrapeutil"
	"keyraces-backend/lib/scrapers/wikipedia"
	"keyraces-backend/lib/telemetry"
	"keyraces-backend/races"

	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("keyraces.services.keyraces")

type Source string

const (
	SourceWikipedia   Source = "wikipedia"
	SourceBallotpedia Source = "ballotpedia"
)

func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceWikipedia, SourceBallotpedia:
		return Source(s), nil
	}
	return "", errors.New("unknown source: " + s)
}

type Options struct {
	// Source selects which site a run scrapes. Defaults to Wikipedia.
	Source Source
	// RequestDelay is the polite pause after each successful fetch.
	RequestDelay time.Duration
	// Jitter widens the pause by a random amount up to this value.
	Jitter time.Duration
	// MaxPages bounds successful fetches across the whole run.
	MaxPages int

	// base URL overrides for tests; production defaults apply when empty
	WikipediaBaseUrl   string
	BallotpediaBaseUrl string
}

type Service struct {
	source          Source
	maxPages        int
	wikipedia       *fetch.Client
	wikipediaBase   string
	ballotpedia     *fetch.Client
	ballotpediaBase string
}

func NewService(opts Options) Service {
	source := opts.Source
	if source == "" {
		source = SourceWikipedia
	}
	wikipediaBase := opts.WikipediaBaseUrl
	if wikipediaBase == "" {
		wikipediaBase = wikipedia.DefaultBaseUrl
	}
	ballotpediaBase := opts.BallotpediaBaseUrl
	if ballotpediaBase == "" {
		ballotpediaBase = ballotpedia.DefaultBaseUrl
	}

	return Service{
		source:   source,
		maxPages: opts.MaxPages,
		wikipedia: fetch.NewClient(fetch.ClientOptions{
			BaseUrl: wikipediaBase,
			Delay:   opts.RequestDelay,
			Jitter:  opts.Jitter,
		}),
		wikipediaBase: wikipediaBase,
		ballotpedia: fetch.NewClient(fetch.ClientOptions{
			BaseUrl:          ballotpediaBase,
			Delay:            opts.RequestDelay,
			Jitter:           opts.Jitter,
			CloudflareBypass: opts.BallotpediaBaseUrl == "",
		}),
		ballotpediaBase: ballotpediaBase,
	}
}

// Run processes targets strictly in order, one at a time, sharing one
// page budget across the batch. Once the budget is exhausted the
// remaining targets are never attempted; outcomes collected so far are
// returned in input order.
func (s Service) Run(ctx context.Context, targets []races.Target) []races.Outcome {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.Int("targets", len(targets)))

	budget := fetch.NewBudget(s.maxPages)

	var outcomes []races.Outcome
	for _, target := range targets {
		if budget.Exhausted() {
			slog.InfoContext(ctx, "page budget exhausted, truncating run",
				"processed", len(outcomes), "total", len(targets))
			break
		}

		out := races.NewOutcome(target)
		switch s.source {
		case SourceBallotpedia:
			s.researchBallotpedia(ctx, budget, target, &out)
		default:
			s.researchWikipedia(ctx, budget, target, &out)
		}
		outcomes = append(outcomes, out)
	}

	return outcomes
}

func (s Service) researchWikipedia(ctx context.Context, budget *fetch.Budget, target races.Target, out *races.Outcome) {
	ctx, span := tracer.Start(ctx, "researchWikipedia")
	defer span.End()

	path := target.Wikipedia.Url
	if target.Wikipedia.Title != "" {
		path = wikipedia.PagePath(target.Wikipedia.Title)
	}
	if path == "" {
		out.Errors = append(out.Errors, "No Wikipedia title or URL provided")
		return
	}

	markup, err := s.wikipedia.Get(ctx, budget, path)
	if err != nil {
		slog.WarnContext(ctx, "wikipedia fetch failed", "race", out.RaceId, "err", err)
		out.Errorf("Fetch failed: %s", err)
	} else {
		wikipedia.Extract(ctx, markup, out)
		out.Race.SetSource("wikipedia", absolute(s.wikipediaBase, path))
	}

	out.Race.ResearchLinks = append(out.Race.ResearchLinks, scrapeutil.ResearchQueries(out.Race)...)
}

func (s Service) researchBallotpedia(ctx context.Context, budget *fetch.Budget, target races.Target, out *races.Outcome) {
	ctx, span := tracer.Start(ctx, "researchBallotpedia")
	defer span.End()

	titles := ballotpedia.GenerateTitles(
		races.StateName(out.Race.State), target.Office, target.Cycle, target.District)

	fetched := false
	for _, title := range titles {
		path := "/" + title
		markup, err := s.ballotpedia.Get(ctx, budget, path)
		if errors.Is(err, fetch.ErrNotFound) {
			// try the next candidate title
			continue
		}
		if errors.Is(err, fetch.ErrBudgetExhausted) {
			break
		}
		if err != nil {
			out.Notef("ballotpedia try failed: %s", err)
			continue
		}

		out.Race.SetSource("ballotpedia", absolute(s.ballotpediaBase, path))
		ballotpedia.Extract(ctx, markup, out)
		fetched = true
		break
	}
	if !fetched {
		out.Errors = append(out.Errors, "No Ballotpedia page found")
	}

	out.Race.ResearchLinks = append(out.Race.ResearchLinks, scrapeutil.ResearchQueries(out.Race)...)
}

func absolute(base, path string) string {
	if path == "" || path[0] != '/' {
		return path
	}
	return base + path
}

// FilterEmpty drops outcomes that carry at least one error and have
// nothing worth reporting (no candidates and no dates). Callers opt out
// of the filter to include empty results.
func FilterEmpty(outcomes []races.Outcome) []races.Outcome {
	var kept []races.Outcome
	for _, out := range outcomes {
		if len(out.Errors) > 0 && !out.HasContent() {
			continue
		}
		kept = append(kept, out)
	}
	return kept
}
