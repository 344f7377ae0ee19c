// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the metadata record for a single PubMed ID,
// with one level of search-based fallback when the direct lookup yields
// nothing usable. Outcomes are explicit variants; this package never
// returns an error to the orchestrator and never panics.
package fetch

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/pubmed-export/internal/entrez"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

// Status classifies the result of a single-record fetch.
type Status int

const (
	// StatusFound means a record was retrieved and carries a PMID.
	StatusFound Status = iota

	// StatusNotFound means the service answered but had no record, and
	// the fallback search produced no usable substitute.
	StatusNotFound

	// StatusTransportError means the request itself failed and the
	// fallback search could not recover.
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	case StatusTransportError:
		return "transport error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one fetch. Record is populated only when
// Status is StatusFound; Err is populated only for StatusTransportError.
type Outcome struct {
	Status Status
	Record types.MetadataRecord
	Err    error
}

// Client is the lookup capability the fetcher needs. *entrez.Client
// satisfies it.
type Client interface {
	FetchArticles(ctx context.Context, pmid string) ([]entrez.Article, error)
	SearchFirstID(ctx context.Context, term string) (string, error)
}

// Fetcher retrieves single records.
type Fetcher struct {
	Client Client
	Logger *log.Logger
}

// New builds a Fetcher.
func New(client Client, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{Client: client, Logger: logger}
}

// Fetch retrieves the metadata record for pmid. When the direct lookup
// yields no article, or fails at the transport level, one fallback
// search is attempted; a substitute ID from the search is fetched once
// more with fallback disabled, so the substitution can never loop.
func (f *Fetcher) Fetch(ctx context.Context, pmid string) Outcome {
	return f.fetch(ctx, pmid, true)
}

func (f *Fetcher) fetch(ctx context.Context, pmid string, allowFallback bool) Outcome {
	f.Logger.Debug("fetching record", "pmid", pmid)

	articles, err := f.Client.FetchArticles(ctx, pmid)
	if err != nil {
		f.Logger.Error("efetch failed", "pmid", pmid, "err", err)
		if allowFallback {
			return f.fallback(ctx, pmid, Outcome{Status: StatusTransportError, Err: err})
		}
		return Outcome{Status: StatusTransportError, Err: err}
	}

	if len(articles) == 0 {
		f.Logger.Warn("no article in response", "pmid", pmid)
		if allowFallback {
			return f.fallback(ctx, pmid, Outcome{Status: StatusNotFound})
		}
		return Outcome{Status: StatusNotFound}
	}

	art := articles[0]
	rec := types.MetadataRecord{
		PMID:    art.PMID(),
		Title:   art.Title(),
		Authors: art.AuthorsJoined(),
		Journal: art.JournalTitle(),
		Year:    art.Year(),
	}
	// The record usually confirms its own PMID; fall back to the
	// requested one so a success always carries an identifier.
	if rec.PMID == "" {
		rec.PMID = pmid
	}
	return Outcome{Status: StatusFound, Record: rec}
}

// fallback performs the single search-by-term substitution. A search
// that errors, finds nothing, or returns the ID that just failed
// terminates with the original failed outcome rather than repeating the
// identical fetch.
func (f *Fetcher) fallback(ctx context.Context, pmid string, failed Outcome) Outcome {
	substitute, err := f.Client.SearchFirstID(ctx, pmid)
	if err != nil {
		f.Logger.Error("fallback search failed", "pmid", pmid, "err", err)
		return failed
	}
	if substitute == "" || substitute == pmid {
		return failed
	}
	f.Logger.Info("fallback search found a substitute ID", "pmid", pmid, "substitute", substitute)
	return f.fetch(ctx, substitute, false)
}
