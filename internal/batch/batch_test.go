// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/pubmed-export/internal/entrez"
)

// fakeClient implements Client with canned responses.
type fakeClient struct {
	verifyErr  error
	articles   map[string][]entrez.Article
	searches   map[string]string
	fetchCalls []string
}

func (f *fakeClient) Verify(context.Context) error { return f.verifyErr }

func (f *fakeClient) FetchArticles(_ context.Context, pmid string) ([]entrez.Article, error) {
	f.fetchCalls = append(f.fetchCalls, pmid)
	return f.articles[pmid], nil
}

func (f *fakeClient) SearchFirstID(_ context.Context, term string) (string, error) {
	return f.searches[term], nil
}

func article(pmid, title string) entrez.Article {
	return entrez.Article{MedlineCitation: entrez.MedlineCitation{
		PMID:    pmid,
		Article: entrez.ArticleDetail{ArticleTitle: title},
	}}
}

func newTestRunner(c Client) *Runner {
	r := NewRunner(c, log.New(io.Discard))
	r.ProgressOut = io.Discard
	return r
}

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pubmed_ids.txt")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunHappyPath(t *testing.T) {
	c := &fakeClient{articles: map[string][]entrez.Article{
		"33176117": {article("33176117", "First")},
		"11111111": {article("11111111", "Second")},
	}}
	path := writeInput(t, "33176117", "11111111")

	result, err := newTestRunner(c).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 0 {
		t.Errorf("counters = %d/%d, want 2/0", result.Succeeded, result.Failed)
	}
	if len(result.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(result.Records))
	}
	// Insertion order follows processing order.
	if result.Records[0].PMID != "33176117" || result.Records[1].PMID != "11111111" {
		t.Errorf("record order = %q, %q", result.Records[0].PMID, result.Records[1].PMID)
	}
}

func TestRunPartialFailure(t *testing.T) {
	// One ID resolves, one finds nothing even after fallback. The run
	// still completes and captures the partial success.
	c := &fakeClient{articles: map[string][]entrez.Article{
		"33176117": {article("33176117", "Found")},
	}}
	path := writeInput(t, "33176117", "99999999")

	result, err := newTestRunner(c).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("counters = %d/%d, want 1/1", result.Succeeded, result.Failed)
	}
}

func TestRunNormalizationMixedInput(t *testing.T) {
	// Blank and unresolvable entries are dropped during normalization;
	// only the valid ID reaches the fetch loop.
	c := &fakeClient{articles: map[string][]entrez.Article{
		"33176117": {article("33176117", "Only")},
	}}
	path := writeInput(t, "33176117", "", "  ", "PMCxxxxx")

	result, err := newTestRunner(c).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 1 || result.Records[0].PMID != "33176117" {
		t.Errorf("Records = %+v, want the single valid ID", result.Records)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0 (drop happens before fetching)", result.Failed)
	}
	if result.NormStats.Dropped != 1 {
		t.Errorf("NormStats.Dropped = %d, want 1", result.NormStats.Dropped)
	}
	if got := c.fetchCalls; len(got) != 1 || got[0] != "33176117" {
		t.Errorf("fetch calls = %v, want only the valid ID", got)
	}
}

func TestRunEmptyAfterNormalization(t *testing.T) {
	c := &fakeClient{}
	path := writeInput(t, "PMCxxxxx", "   ")

	result, err := newTestRunner(c).Run(context.Background(), path)
	// Zero usable identifiers is not a failure.
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("Records = %+v, want none", result.Records)
	}
}

func TestRunEmptyInputFile(t *testing.T) {
	c := &fakeClient{}
	path := writeInput(t)

	result, err := newTestRunner(c).Run(context.Background(), path)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 0 {
		t.Errorf("Records = %+v, want none", result.Records)
	}
	if len(c.fetchCalls) != 0 {
		t.Errorf("fetch calls = %v, want none", c.fetchCalls)
	}
}

func TestRunVerifyFailureIsFatal(t *testing.T) {
	verifyErr := errors.New("connectivity check: no route to host")
	c := &fakeClient{verifyErr: verifyErr}

	// The input path does not exist: Run must fail on the connectivity
	// check before ever touching the input file.
	_, err := newTestRunner(c).Run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, verifyErr) {
		t.Fatalf("err = %v, want the verify error", err)
	}
}

func TestRunMissingInputFileIsFatal(t *testing.T) {
	c := &fakeClient{}
	_, err := newTestRunner(c).Run(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("Run should fail for a missing input file")
	}
}

func TestRunSequentialFetches(t *testing.T) {
	c := &fakeClient{articles: map[string][]entrez.Article{
		"1": {article("1", "a")},
		"2": {article("2", "b")},
		"3": {article("3", "c")},
	}}
	path := writeInput(t, "1", "2", "3")

	r := newTestRunner(c)
	r.ProgressEvery = time.Hour // keep periodic summaries out of the way
	if _, err := r.Run(context.Background(), path); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"1", "2", "3"}
	for i, id := range want {
		if c.fetchCalls[i] != id {
			t.Fatalf("fetch calls = %v, want %v in order", c.fetchCalls, want)
		}
	}
}

func TestReadIDFile(t *testing.T) {
	path := writeInput(t, " 111 ", "", "PMC222", "   ", "free text term")
	got, err := ReadIDFile(path)
	if err != nil {
		t.Fatalf("ReadIDFile: %v", err)
	}
	want := []string{"111", "PMC222", "free text term"}
	if len(got) != len(want) {
		t.Fatalf("ReadIDFile() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
