// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"regexp"
	"strings"
)

// PubMed efetch XML structures. The DTD is large and almost every
// element is optional; only what the exporter consumes is modeled, and
// absent elements decode to zero values. The accessor methods on
// Article apply the extraction precedence so callers never walk the
// nested optionals themselves.
type articleSet struct {
	Articles []Article `xml:"PubmedArticle"`
}

// Article is one decoded PubmedArticle element.
type Article struct {
	MedlineCitation MedlineCitation `xml:"MedlineCitation"`
}

// MedlineCitation wraps the citation-level fields of an article.
type MedlineCitation struct {
	PMID        string        `xml:"PMID"`
	DateCreated PartialDate   `xml:"DateCreated"`
	Article     ArticleDetail `xml:"Article"`
}

// ArticleDetail holds the article-level metadata fields.
type ArticleDetail struct {
	ArticleTitle string     `xml:"ArticleTitle"`
	Journal      Journal    `xml:"Journal"`
	AuthorList   AuthorList `xml:"AuthorList"`
}

// Journal describes the publication venue.
type Journal struct {
	Title        string       `xml:"Title"`
	JournalIssue JournalIssue `xml:"JournalIssue"`
}

// JournalIssue carries the issue-level publication date.
type JournalIssue struct {
	PubDate PubDate `xml:"PubDate"`
}

// PubDate carries either a structured Year or a free-form MedlineDate
// ("1998 Dec-1999 Jan"), never both.
type PubDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

// PartialDate is a date element of which only the year is consumed.
type PartialDate struct {
	Year string `xml:"Year"`
}

// AuthorList wraps the ordered author entries.
type AuthorList struct {
	Authors []Author `xml:"Author"`
}

// Author is one AuthorList entry: a person (ForeName/LastName) or a
// collective body (CollectiveName).
type Author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	Initials       string `xml:"Initials"`
	CollectiveName string `xml:"CollectiveName"`
}

// FullName returns "ForeName LastName" trimmed of surrounding
// whitespace, the CollectiveName for group authors, or "" when the
// entry carries no usable name.
func (a Author) FullName() string {
	if a.ForeName == "" && a.LastName == "" {
		return a.CollectiveName
	}
	return strings.TrimSpace(a.ForeName + " " + a.LastName)
}

// PMID returns the identifier confirmed by the record, or "".
func (a Article) PMID() string {
	return strings.TrimSpace(a.MedlineCitation.PMID)
}

// Title returns the article title, or "".
func (a Article) Title() string {
	return strings.TrimSpace(a.MedlineCitation.Article.ArticleTitle)
}

// JournalTitle returns the full journal title, or "".
func (a Article) JournalTitle() string {
	return strings.TrimSpace(a.MedlineCitation.Article.Journal.Title)
}

// medlineYearPattern extracts the first 4-digit run from a MedlineDate.
var medlineYearPattern = regexp.MustCompile(`\d{4}`)

// Year returns the publication year with the precedence: issue-level
// PubDate year, then the year embedded in a MedlineDate, then the
// record-creation year. Empty when none is present.
func (a Article) Year() string {
	pd := a.MedlineCitation.Article.Journal.JournalIssue.PubDate
	if pd.Year != "" {
		return pd.Year
	}
	if y := medlineYearPattern.FindString(pd.MedlineDate); y != "" {
		return y
	}
	return a.MedlineCitation.DateCreated.Year
}

// AuthorsJoined formats the author list as a single string, joining
// per-author names with ", " in source order. Entries with no usable
// name are omitted.
func (a Article) AuthorsJoined() string {
	var names []string
	for _, au := range a.MedlineCitation.Article.AuthorList.Authors {
		if name := au.FullName(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
