// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// MetadataRecord holds the exported fields for one PubMed article.
// Fields may be empty when the source record lacks that data; a record
// counts as a successful fetch as long as PMID is populated. Records are
// never mutated after creation.
type MetadataRecord struct {
	// PMID is the PubMed identifier confirmed by the service.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Authors is the formatted author list, joined with ", " in source
	// order. Each entry is "ForeName LastName" or a collective name.
	Authors string `json:"authors" yaml:"authors"`

	// Journal is the full journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the publication year as printed in the record, or empty.
	Year string `json:"year" yaml:"year"`
}

// Valid reports whether the record counts as a successful fetch.
func (r MetadataRecord) Valid() bool {
	return r.PMID != ""
}
