// Package fetch wraps outbound page retrieval behind the politeness
// contract shared by every scraper: one GET per call, a bounded timeout,
// an identifying user agent, a per-run page budget and a mandatory delay
// after each successful fetch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"keyraces-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
)

const UserAgent = "KeyRacesBot/1.0 (+https://github.com/keyraces/keyraces-backend)"

// ErrBudgetExhausted is returned before any network call once the run's
// page budget has been spent.
var ErrBudgetExhausted = errors.New("page budget exhausted")

// ErrNotFound means the page responded with a non-200 status. Callers
// are expected to try their next candidate URL rather than fail.
var ErrNotFound = errors.New("page not found")

// Budget counts successful fetches across one run. It is owned by the
// orchestrator and passed by pointer to every fetch call; runs are
// strictly sequential so no locking is involved.
type Budget struct {
	remaining int
}

func NewBudget(maxPages int) *Budget {
	return &Budget{remaining: maxPages}
}

func (b *Budget) Exhausted() bool {
	return b.remaining <= 0
}

func (b *Budget) spend() {
	b.remaining--
}

type ClientOptions struct {
	// BaseUrl scopes relative fetch paths to one site. Absolute URLs
	// passed to Get are used verbatim.
	BaseUrl string
	// Delay is the polite pause after every successful fetch.
	Delay time.Duration
	// Jitter, when positive, adds a random duration in [0, Jitter) to
	// each polite pause.
	Jitter time.Duration
	// Timeout bounds a single request. Defaults to 20 seconds.
	Timeout time.Duration
	// CloudflareBypass swaps in a transport that negotiates the
	// anti-bot challenge some sources sit behind.
	CloudflareBypass bool
}

type Client struct {
	http   *resty.Client
	delay  time.Duration
	jitter time.Duration
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 20
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	client.SetHeader("Cache-Control", "no-cache")
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	telemetry.InstrumentResty(client, "keyraces.lib.fetch")

	return &Client{
		http:   client,
		delay:  opts.Delay,
		jitter: opts.Jitter,
	}
}

// Get performs exactly one HTTP GET. Non-200 responses map to
// ErrNotFound; transport failures are returned as-is. On success the
// budget is spent and the polite delay runs before control returns.
func (c *Client) Get(ctx context.Context, budget *Budget, url string) (string, error) {
	if budget.Exhausted() {
		return "", ErrBudgetExhausted
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	if res.StatusCode() != 200 {
		slog.DebugContext(ctx, "page absent", "url", url, "status", res.StatusCode())
		return "", ErrNotFound
	}

	budget.spend()
	c.politeSleep(ctx)
	return string(res.Body()), nil
}

// politeSleep pauses for the configured delay plus jitter. A cancelled
// context cuts the pause short; that is treated as a zero delay, never
// as a fetch failure.
func (c *Client) politeSleep(ctx context.Context) {
	pause := c.delay
	if c.jitter > 0 {
		extra, err := random.IntRange(0, int(c.jitter.Milliseconds()))
		if err == nil {
			pause += time.Duration(extra) * time.Millisecond
		}
	}
	if pause <= 0 {
		return
	}

	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
