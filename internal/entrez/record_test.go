// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import "testing"

func TestAuthorFullName(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{"forename and lastname", Author{ForeName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"lastname only", Author{LastName: "Doe"}, "Doe"},
		{"forename only", Author{ForeName: "Jane"}, "Jane"},
		{"collective name", Author{CollectiveName: "Working Group"}, "Working Group"},
		{"person name wins over collective", Author{ForeName: "Jane", LastName: "Doe", CollectiveName: "Group"}, "Jane Doe"},
		{"empty entry", Author{}, ""},
		{"initials alone are not a name", Author{Initials: "JD"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArticleAuthorsJoined(t *testing.T) {
	tests := []struct {
		name    string
		authors []Author
		want    string
	}{
		{
			"two people",
			[]Author{{ForeName: "Ada", LastName: "Lovelace"}, {ForeName: "Alan", LastName: "Turing"}},
			"Ada Lovelace, Alan Turing",
		},
		{
			"person then collective",
			[]Author{{ForeName: "Jane", LastName: "Doe"}, {CollectiveName: "COVE Study Group"}},
			"Jane Doe, COVE Study Group",
		},
		{
			"empty entries omitted",
			[]Author{{ForeName: "Jane", LastName: "Doe"}, {}, {LastName: "Smith"}},
			"Jane Doe, Smith",
		},
		{"no authors", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Article{MedlineCitation: MedlineCitation{
				Article: ArticleDetail{AuthorList: AuthorList{Authors: tt.authors}},
			}}
			if got := a.AuthorsJoined(); got != tt.want {
				t.Errorf("AuthorsJoined() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArticleYearPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		pubYear     string
		medlineDate string
		createdYear string
		want        string
	}{
		{"issue year preferred over created year", "2021", "", "2020", "2021"},
		{"medline date year when no issue year", "", "1998 Dec-1999 Jan", "2000", "1998"},
		{"created year when issue date absent", "", "", "2019", "2019"},
		{"all absent", "", "", "", ""},
		{"issue year preferred over medline date", "2021", "2020 Nov-Dec", "", "2021"},
		{"medline date without a year", "", "Winter", "2017", "2017"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Article{MedlineCitation: MedlineCitation{
				DateCreated: PartialDate{Year: tt.createdYear},
				Article: ArticleDetail{Journal: Journal{
					JournalIssue: JournalIssue{PubDate: PubDate{
						Year:        tt.pubYear,
						MedlineDate: tt.medlineDate,
					}},
				}},
			}}
			if got := a.Year(); got != tt.want {
				t.Errorf("Year() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArticleFieldTrimming(t *testing.T) {
	a := Article{MedlineCitation: MedlineCitation{
		PMID: " 33176117\n",
		Article: ArticleDetail{
			ArticleTitle: "\n  A Title  ",
			Journal:      Journal{Title: " A Journal "},
		},
	}}
	if got := a.PMID(); got != "33176117" {
		t.Errorf("PMID() = %q", got)
	}
	if got := a.Title(); got != "A Title" {
		t.Errorf("Title() = %q", got)
	}
	if got := a.JournalTitle(); got != "A Journal" {
		t.Errorf("JournalTitle() = %q", got)
	}
}
