// Package poll fans a settings query out over a fixed inventory of printers.
//
// Each target is queried independently on its own connection with a bounded
// number of workers; one target's failure never aborts the rest. The input
// target list is never mutated — every run produces a fresh result slice
// ordered like its input.
package poll

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/printops/go-zpl/internal/util"
	"github.com/printops/go-zpl/logger"
	"github.com/printops/go-zpl/zpl"
)

// DefaultConcurrency is the default number of targets queried in parallel.
const DefaultConcurrency = 8

// Target identifies one printer to poll. A Port <= 0 selects zpl.DefaultPort.
type Target struct {
	Host string
	Port int
}

// Result is the outcome of polling one target.
//
// Err records the first failure on any phase: connect, read, parse, or a
// field lookup. Fields extracted before the failure are retained, so a dump
// missing only the stored mode still reports name and current mode.
type Result struct {
	Target Target

	Name        string
	CurrentMode string
	StoredMode  string

	Err error
}

// Poller polls printer inventories.
type Poller struct {
	concurrency int
	connOpts    []zpl.ConnOption
	logger      logger.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithConcurrency bounds the number of targets queried in parallel.
// Values < 1 are ignored.
func WithConcurrency(n int) Option {
	return func(p *Poller) {
		if n >= 1 {
			p.concurrency = n
		}
	}
}

// WithConnOptions passes connection options through to every per-target
// client, e.g. shortened timeouts for dense inventories.
func WithConnOptions(opts ...zpl.ConnOption) Option {
	return func(p *Poller) {
		p.connOpts = append(p.connOpts, opts...)
	}
}

// WithLogger sets the poller's logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Poller.
func New(opts ...Option) *Poller {
	p := &Poller{
		concurrency: DefaultConcurrency,
		logger:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Poll queries every target and returns one Result per target, in input
// order. Cancelling ctx aborts targets that have not completed; their results
// carry the context error.
func (p *Poller) Poll(ctx context.Context, targets []Target) []Result {
	// Snapshot the inventory so a caller mutating its slice mid-poll cannot
	// skew worker indexing.
	targets = util.CloneSlice(targets, 0)

	results := xsync.NewMapOf[int, Result]()
	sem := make(chan struct{}, p.concurrency)

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)

		go func(idx int, t Target) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results.Store(idx, p.pollOne(ctx, t))
		}(i, target)
	}
	wg.Wait()

	out := make([]Result, len(targets))
	for i := range targets {
		r, _ := results.Load(i)
		out[i] = r
	}

	return out
}

func (p *Poller) pollOne(ctx context.Context, target Target) Result {
	result := Result{Target: target}

	cfg, err := zpl.NewConnectionConfig(target.Host, target.Port, p.connOpts...)
	if err != nil {
		result.Err = err
		return result
	}

	client, err := zpl.NewClient(cfg)
	if err != nil {
		result.Err = err
		return result
	}

	settings, err := client.GetSettings(ctx)
	if err != nil {
		p.logger.Debug("settings fetch failed", "printer", cfg.Addr(), "error", err)
		result.Err = err

		return result
	}

	// Field lookups fail per device independently of the fetch succeeding;
	// record the first miss but keep whatever was found.
	record := func(dst *string, get func() (string, error)) {
		v, err := get()
		if err != nil {
			if result.Err == nil {
				result.Err = err
			}
			return
		}
		*dst = v
	}

	record(&result.Name, settings.Name)
	record(&result.CurrentMode, settings.CurrentPrintMode)
	record(&result.StoredMode, settings.StoredPrintMode)

	p.logger.Debug("settings fetched",
		"printer", cfg.Addr(),
		"name", result.Name,
		"currentMode", result.CurrentMode,
		"storedMode", result.StoredMode,
	)

	return result
}
