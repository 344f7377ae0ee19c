// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw identifier input into a deduplicated,
// ordered list of PubMed IDs. It classifies each entry as a numeric
// PMID, a PMC accession needing search resolution, or a free-text term,
// and degrades every per-item problem to drop-and-continue.
package normalize

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// maxPMIDDigits is the longest PMID the service issues today. Longer
// all-digit input is truncated to its trailing digits; see Stats.Truncated.
const maxPMIDDigits = 8

// pmcPrefix marks PubMed Central accessions, which live in a different
// namespace and must be resolved to PMIDs via search.
const pmcPrefix = "PMC"

// Searcher resolves a free-text term or alternate identifier to the
// first matching PMID, returning "" when nothing matches.
// *entrez.Client satisfies it.
type Searcher interface {
	SearchFirstID(ctx context.Context, term string) (string, error)
}

// Stats counts the warning conditions encountered during normalization.
type Stats struct {
	// Dropped is the number of identifiers discarded because they could
	// not be resolved. Blank input lines are not counted.
	Dropped int

	// Truncated is the number of over-long numeric identifiers cut to
	// their trailing digits. Truncation is a heuristic: the result is
	// accepted without confirming it names the intended record.
	Truncated int

	// Resolved is the number of identifiers converted to PMIDs via
	// search (PMC accessions and free-text terms).
	Resolved int
}

// Normalizer cleans raw identifier lists.
type Normalizer struct {
	Searcher Searcher
	Logger   *log.Logger
}

// New builds a Normalizer.
func New(s Searcher, logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{Searcher: s, Logger: logger}
}

// Normalize classifies and cleans raw identifiers into PMIDs, preserving
// first-occurrence order and removing duplicates across all resolution
// paths. It never fails: unresolvable entries are dropped and counted.
func (n *Normalizer) Normalize(ctx context.Context, raw []string) ([]string, Stats) {
	var (
		ids   []string
		stats Stats
		pmcs  []string
		seen  = make(map[string]bool)
	)

	accept := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, r := range raw {
		candidate := strings.TrimSpace(r)
		if candidate == "" {
			continue
		}

		if strings.HasPrefix(strings.ToUpper(candidate), pmcPrefix) {
			pmcs = append(pmcs, candidate)
			continue
		}

		if isDigits(candidate) {
			if len(candidate) <= maxPMIDDigits {
				accept(candidate)
				continue
			}
			truncated := candidate[len(candidate)-maxPMIDDigits:]
			n.Logger.Warn("identifier longer than 8 digits, taking trailing 8",
				"id", candidate, "truncated", truncated)
			stats.Truncated++
			accept(truncated)
			continue
		}

		// Neither numeric nor PMC: treat as a search term.
		n.Logger.Warn("identifier is not a PMID or PMC accession, searching for a match", "id", candidate)
		pmid := n.resolve(ctx, candidate, &stats)
		if pmid != "" {
			accept(pmid)
		}
	}

	for _, pmc := range pmcs {
		pmid := n.resolve(ctx, pmc, &stats)
		if pmid == "" {
			n.Logger.Warn("unable to convert PMC accession to a PMID", "id", pmc)
			continue
		}
		accept(pmid)
	}

	return ids, stats
}

// resolve searches for term and returns the first matching PMID, or ""
// after counting the drop. Search errors degrade to drops; a single bad
// identifier never aborts the batch.
func (n *Normalizer) resolve(ctx context.Context, term string, stats *Stats) string {
	pmid, err := n.Searcher.SearchFirstID(ctx, term)
	if err != nil {
		n.Logger.Error("search failed", "term", term, "err", err)
		stats.Dropped++
		return ""
	}
	if pmid == "" {
		n.Logger.Warn("no PubMed records found", "term", term)
		stats.Dropped++
		return ""
	}
	n.Logger.Info("resolved identifier via search", "term", term, "pmid", pmid)
	stats.Resolved++
	return pmid
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
