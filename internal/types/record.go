package types

import "strconv"

// Headers is the fixed header row of every export.
var Headers = []string{
	"Title",
	"Date",
	"Description",
	"Picture Filename",
	"Search Phrase Count",
	"Contains Money",
}

// ArticleRecord is one scraped article, exported as a single row.
type ArticleRecord struct {
	Title             string `json:"title"              bson:"title"`
	PublishedDate     string `json:"published_date"     bson:"published_date"`
	Description       string `json:"description"        bson:"description"`
	ImageFilename     string `json:"image_filename"     bson:"image_filename"`
	SearchPhraseCount int    `json:"search_phrase_count" bson:"search_phrase_count"`
	ContainsMoney     bool   `json:"contains_money"     bson:"contains_money"`
}

// Row renders the record in Headers order.
func (r ArticleRecord) Row() []string {
	return []string{
		r.Title,
		r.PublishedDate,
		r.Description,
		r.ImageFilename,
		strconv.Itoa(r.SearchPhraseCount),
		BoolText(r.ContainsMoney),
	}
}

// BoolText renders a boolean the way the spreadsheet expects it.
func BoolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
