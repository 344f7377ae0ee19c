package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-export/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EntrezConfig holds settings for the NCBI E-utilities client.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email identifies the caller to NCBI; sent as the email query
	// parameter on every request. NCBI asks all E-utilities users to
	// supply one.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Tool is the application name sent as the tool query parameter.
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`
}

// RunConfig holds settings for a batch export run.
type RunConfig struct {
	Entrez EntrezConfig `json:"entrez" yaml:"entrez"`

	// ProgressEvery is the interval between periodic progress summaries
	// during a batch run (default 10s).
	ProgressEvery time.Duration `json:"progress_every" yaml:"progress_every"`
}
