package narrator

import "github.com/mwijanarko1/rijal/internal/matching"

// Narrator is a canonical narrator registry record.
type Narrator struct {
	ID                 string `json:"id"`
	PrimaryArabicName  string `json:"primaryArabicName"`
	PrimaryEnglishName string `json:"primaryEnglishName"`
	FullNameArabic     string `json:"fullNameArabic,omitempty"`
	FullNameEnglish    string `json:"fullNameEnglish,omitempty"`
	Kunya              string `json:"kunya,omitempty"`
	Title              string `json:"title,omitempty"`
	Lineage            string `json:"lineage,omitempty"`
	Biography          string `json:"biography,omitempty"`

	TaqribRank   string `json:"taqribRank,omitempty"`
	IbnHajarRank string `json:"ibnHajarRank,omitempty"`
	DhahabiRank  string `json:"dhahabiRank,omitempty"`
	Generation   string `json:"generation,omitempty"`
	Residence    string `json:"residence,omitempty"`
	BirthYear    string `json:"birthYear,omitempty"`
	DeathYear    string `json:"deathYear,omitempty"`

	AlternateNames []NameVariant `json:"alternateNames,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// NameVariant is an additional name recorded for a narrator.
type NameVariant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"` // "ar" or "en"
}

// Opinion is a scholar's grading statement about a narrator.
type Opinion struct {
	ID         int64  `json:"id"`
	Scholar    string `json:"scholar"`
	Opinion    string `json:"opinion"`
	Reputation string `json:"reputation,omitempty"` // extracted grade label
}

// CreateInput holds the fields for creating a narrator.
type CreateInput struct {
	PrimaryArabicName  string `json:"primaryArabicName"`
	PrimaryEnglishName string `json:"primaryEnglishName"`
	FullNameArabic     string `json:"fullNameArabic"`
	FullNameEnglish    string `json:"fullNameEnglish"`
	Kunya              string `json:"kunya"`
	Title              string `json:"title"`
	Lineage            string `json:"lineage"`
	Biography          string `json:"biography"`
	TaqribRank         string `json:"taqribRank"`
	IbnHajarRank       string `json:"ibnHajarRank"`
	DhahabiRank        string `json:"dhahabiRank"`
	Generation         string `json:"generation"`
	Residence          string `json:"residence"`
	BirthYear          string `json:"birthYear"`
	DeathYear          string `json:"deathYear"`
}

// UpdateInput holds the updatable fields of a narrator. Nil pointers leave
// the stored value untouched.
type UpdateInput struct {
	PrimaryArabicName  *string `json:"primaryArabicName"`
	PrimaryEnglishName *string `json:"primaryEnglishName"`
	FullNameArabic     *string `json:"fullNameArabic"`
	FullNameEnglish    *string `json:"fullNameEnglish"`
	Kunya              *string `json:"kunya"`
	Title              *string `json:"title"`
	Lineage            *string `json:"lineage"`
	Biography          *string `json:"biography"`
	TaqribRank         *string `json:"taqribRank"`
	IbnHajarRank       *string `json:"ibnHajarRank"`
	DhahabiRank        *string `json:"dhahabiRank"`
	Generation         *string `json:"generation"`
	Residence          *string `json:"residence"`
	BirthYear          *string `json:"birthYear"`
	DeathYear          *string `json:"deathYear"`
}

// SearchOptions holds search terms, classification filters and pagination.
type SearchOptions struct {
	Query    string                 `json:"query"`
	Filters  matching.SearchFilters `json:"filters"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
}

// SearchResult pairs a narrator with its relevance score.
type SearchResult struct {
	Narrator *Narrator `json:"narrator"`
	Score    float64   `json:"score"`
}

// SearchResponse is a page of search results.
type SearchResponse struct {
	Items      []SearchResult `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalCount int            `json:"totalCount"`
}

// MatchRequest holds the query names for identity resolution.
type MatchRequest struct {
	ArabicName  string `json:"arabicName"`
	EnglishName string `json:"englishName"`
}
