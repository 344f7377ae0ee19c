// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch orchestrates a full export run: connectivity check,
// input reading, identifier normalization, and the strictly sequential
// per-ID fetch loop with running counters and progress reporting.
package batch

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/pubmed-export/internal/entrez"
	"github.com/pdiddy/pubmed-export/internal/fetch"
	"github.com/pdiddy/pubmed-export/internal/normalize"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

// defaultProgressEvery is the interval between periodic progress
// summary log lines during the fetch loop.
const defaultProgressEvery = 10 * time.Second

// Client is the remote capability the orchestrator needs.
// *entrez.Client satisfies it; it is an interface so tests can run the
// loop against a fake.
type Client interface {
	Verify(ctx context.Context) error
	FetchArticles(ctx context.Context, pmid string) ([]entrez.Article, error)
	SearchFirstID(ctx context.Context, term string) (string, error)
}

// Result holds the outcome of a batch run. Records preserves the order
// in which IDs were processed; normalization upstream guarantees no
// identifier appears twice.
type Result struct {
	Records   []types.MetadataRecord
	Succeeded int
	Failed    int
	NormStats normalize.Stats
}

// Runner drives a batch run. Fetches are strictly sequential: one
// request outstanding at a time, matching the service's
// single-connection usage pattern.
type Runner struct {
	Client Client
	Logger *log.Logger

	// ProgressEvery overrides the periodic summary interval (default 10s).
	ProgressEvery time.Duration

	// ProgressOut receives the progress bar (default os.Stderr).
	ProgressOut io.Writer
}

// NewRunner builds a Runner.
func NewRunner(client Client, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Client: client, Logger: logger}
}

// Run executes the full pipeline for the identifier file at inputPath.
// The connectivity check runs before the input file is touched; either
// failing is fatal and returns an error. Everything after that degrades
// to skip-and-continue: an empty input, an empty normalized list, and
// any number of per-record failures all complete with a nil error.
func (r *Runner) Run(ctx context.Context, inputPath string) (Result, error) {
	if err := r.Client.Verify(ctx); err != nil {
		return Result{}, err
	}

	raw, err := ReadIDFile(inputPath)
	if err != nil {
		return Result{}, err
	}
	if len(raw) == 0 {
		r.Logger.Warn("no identifiers found in input file", "path", inputPath)
		return Result{}, nil
	}

	norm := normalize.New(r.Client, r.Logger)
	ids, stats := norm.Normalize(ctx, raw)
	result := Result{NormStats: stats}
	if len(ids) == 0 {
		r.Logger.Warn("no valid PubMed IDs after normalization")
		return result, nil
	}
	r.Logger.Info("fetching metadata", "ids", len(ids), "dropped", stats.Dropped, "truncated", stats.Truncated)

	fetcher := fetch.New(r.Client, r.Logger)
	bar := r.newBar(len(ids))

	every := r.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}
	lastSummary := time.Now()

	for _, id := range ids {
		outcome := fetcher.Fetch(ctx, id)
		if outcome.Status == fetch.StatusFound && outcome.Record.Valid() {
			result.Records = append(result.Records, outcome.Record)
			result.Succeeded++
		} else {
			result.Failed++
		}
		bar.Add(1)

		if time.Since(lastSummary) >= every {
			r.Logger.Info("progress", "found", result.Succeeded, "missed", result.Failed)
			lastSummary = time.Now()
		}
	}
	bar.Finish()

	r.Logger.Info("batch complete", "found", result.Succeeded, "missed", result.Failed)
	return result, nil
}

func (r *Runner) newBar(total int) *progressbar.ProgressBar {
	out := r.ProgressOut
	if out == nil {
		out = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Fetching PubMed metadata"),
		progressbar.OptionShowCount(),
	)
}
