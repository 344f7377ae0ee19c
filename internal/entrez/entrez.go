// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entrez implements the NCBI E-utilities client used for PubMed
// metadata lookups: structured efetch by PMID, esearch term resolution,
// and a startup connectivity check.
package entrez

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/pubmed-export/internal/httputil"
	"github.com/pdiddy/pubmed-export/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
)

// CanaryPMID is a known-good PubMed ID fetched once at startup to
// confirm connectivity before committing to a batch.
const CanaryPMID = "33176117"

// TransportError marks a failure to obtain a usable response: network
// errors, non-200 statuses, and undecodable payloads. It is distinct
// from a well-formed response containing zero records, which is not an
// error at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client talks to the NCBI E-utilities API. Zero concurrent use is
// assumed; the exporter issues one request at a time.
type Client struct {
	HTTPClient *http.Client
	Config     types.EntrezConfig
	Logger     *log.Logger
}

// New builds a Client from cfg, defaulting the HTTP client to one with
// the configured timeout.
func New(cfg types.EntrezConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Config:     cfg,
		Logger:     logger,
	}
}

// FetchArticles performs an efetch for pmid and decodes the structured
// XML response. A well-formed response with no PubmedArticle elements
// returns an empty slice and nil error; only transport-level problems
// return a *TransportError.
func (c *Client) FetchArticles(ctx context.Context, pmid string) ([]Article, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pmid},
		"retmode": {"xml"},
		"rettype": {"xml"},
	}

	resp, err := c.get(ctx, efetchBase, params)
	if err != nil {
		return nil, &TransportError{Op: "efetch " + pmid, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "efetch " + pmid, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var set articleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, &TransportError{Op: "efetch " + pmid, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return set.Articles, nil
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// SearchFirstID performs an esearch for term and returns the first
// matching PMID, or "" when the search finds nothing. Used both for
// alternate-identifier resolution (PMC accessions, DOIs, titles) and as
// the fallback when a direct efetch comes back empty.
func (c *Client) SearchFirstID(ctx context.Context, term string) (string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {"1"},
		"retmode": {"json"},
	}

	resp, err := c.get(ctx, esearchBase, params)
	if err != nil {
		return "", &TransportError{Op: "esearch " + term, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Op: "esearch " + term, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var er esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return "", &TransportError{Op: "esearch " + term, Err: fmt.Errorf("parsing response: %w", err)}
	}

	if len(er.Result.IDList) == 0 {
		return "", nil
	}
	return er.Result.IDList[0], nil
}

// Verify fetches the canary record and confirms at least one article
// decodes. A failure here indicates a systemic connectivity problem.
func (c *Client) Verify(ctx context.Context) error {
	articles, err := c.FetchArticles(ctx, CanaryPMID)
	if err != nil {
		return fmt.Errorf("connectivity check: %w", err)
	}
	if len(articles) == 0 {
		return fmt.Errorf("connectivity check: empty response for known-good PMID %s", CanaryPMID)
	}
	c.Logger.Debug("connectivity check passed", "pmid", CanaryPMID, "title", articles[0].Title())
	return nil
}

// get issues a GET with the NCBI etiquette parameters (tool, email,
// api_key) and User-Agent applied, retrying on HTTP 429.
func (c *Client) get(ctx context.Context, base string, params url.Values) (*http.Response, error) {
	if c.Config.Tool != "" {
		params.Set("tool", c.Config.Tool)
	}
	if c.Config.Email != "" {
		params.Set("email", c.Config.Email)
	}
	if c.Config.APIKey != "" {
		params.Set("api_key", c.Config.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Config.UserAgent)

	return httputil.DoWithRetry(ctx, c.HTTPClient, req, 0, c.Logger)
}
