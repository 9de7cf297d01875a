package shamela

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is one parsed Shamela book page.
type Page struct {
	BookTitle  string
	PageNumber string
	Entries    []string
}

// ParsePage extracts the text blocks from a Shamela book page. The page
// body lives in a div.nass container, one paragraph per text block;
// footnote blocks (div.hamesh) are skipped.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	page := &Page{
		BookTitle: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	doc.Find("div.nass p").Each(func(_ int, sel *goquery.Selection) {
		if sel.Closest("div.hamesh").Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			page.Entries = append(page.Entries, text)
		}
	})

	// Shamela prints the physical page number in the footer nav.
	if num := strings.TrimSpace(doc.Find("input#fld_goto_bottom").AttrOr("value", "")); num != "" {
		page.PageNumber = num
	}

	return page, nil
}
