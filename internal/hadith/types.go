package hadith

// Hadith is a stored hadith text with its source reference.
type Hadith struct {
	ID          string `json:"id"`
	Collection  string `json:"collection"`
	Number      string `json:"number,omitempty"`
	ArabicText  string `json:"arabicText"`
	EnglishText string `json:"englishText,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`

	Chains []Chain `json:"chains,omitempty"`
}

// Chain is one isnad recorded for a hadith.
type Chain struct {
	ID       string      `json:"id"`
	HadithID string      `json:"hadithId"`
	Label    string      `json:"label,omitempty"`
	Links    []ChainLink `json:"links"`
}

// ChainLink is one narrator position in an isnad. NarratorID is empty
// until the raw name has been resolved against the registry.
type ChainLink struct {
	ID         int64   `json:"id"`
	Position   int     `json:"position"`
	RawName    string  `json:"rawName"`
	NarratorID string  `json:"narratorId,omitempty"`
	Confidence float64 `json:"confidence"`
}

// CreateInput holds the fields for creating a hadith.
type CreateInput struct {
	Collection  string `json:"collection"`
	Number      string `json:"number"`
	ArabicText  string `json:"arabicText"`
	EnglishText string `json:"englishText"`
	SourceURL   string `json:"sourceUrl"`
}

// UpdateInput holds the updatable fields of a hadith. Nil pointers leave
// the stored value untouched.
type UpdateInput struct {
	Collection  *string `json:"collection"`
	Number      *string `json:"number"`
	ArabicText  *string `json:"arabicText"`
	EnglishText *string `json:"englishText"`
	SourceURL   *string `json:"sourceUrl"`
}

// CreateChainInput holds an isnad's narrator names in order, closest to
// the collector first.
type CreateChainInput struct {
	Label    string   `json:"label"`
	RawNames []string `json:"rawNames"`
}

// ListOptions holds list filters and pagination.
type ListOptions struct {
	Collection string `json:"collection"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}

// ListResponse is a page of hadiths.
type ListResponse struct {
	Items      []*Hadith `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalCount int       `json:"totalCount"`
}

// ResolveResult reports the outcome of resolving one chain.
type ResolveResult struct {
	ChainID  string      `json:"chainId"`
	Resolved int         `json:"resolved"`
	Total    int         `json:"total"`
	Links    []ChainLink `json:"links"`
}
