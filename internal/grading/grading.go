// Package grading extracts reputation labels from scholars' grading
// opinions. Opinion texts are free prose in Arabic or transliterated
// English; the extractor looks for known grade keywords and maps the
// strongest claim to a canonical label.
package grading

import (
	"sort"
	"strings"

	"github.com/mwijanarko1/rijal/internal/matching"
)

// Canonical reputation labels, ordered from strongest endorsement to
// strongest criticism.
const (
	ReputationTrustworthy = "trustworthy"
	ReputationTruthful    = "truthful"
	ReputationAcceptable  = "acceptable"
	ReputationUnknown     = "unknown"
	ReputationWeak        = "weak"
	ReputationAbandoned   = "abandoned"
	ReputationAccused     = "accused"
)

type grade struct {
	keyword string
	label   string
	// severity orders competing claims in one text; higher wins.
	severity int
}

// Keywords are written in normalized form (teh marbuta folded to heh,
// hamza seats folded to bare alef) because they are matched against the
// normalized opinion text. The scan orders by length so e.g. "ضعيف جدا"
// claims its span before "ضعيف" can.
var grades = []grade{
	{"كذاب", ReputationAccused, 7},
	{"يضع الحديث", ReputationAccused, 7},
	{"متهم بالكذب", ReputationAccused, 7},
	{"liar", ReputationAccused, 7},
	{"fabricator", ReputationAccused, 7},

	{"متروك الحديث", ReputationAbandoned, 6},
	{"متروك", ReputationAbandoned, 6},
	{"matruk", ReputationAbandoned, 6},

	{"ضعيف جدا", ReputationWeak, 5},
	{"ضعيف الحديث", ReputationWeak, 5},
	{"ضعيف", ReputationWeak, 5},
	{"لين الحديث", ReputationWeak, 5},
	{"منكر الحديث", ReputationWeak, 5},
	{"da'if", ReputationWeak, 5},
	{"daif", ReputationWeak, 5},
	{"weak", ReputationWeak, 5},

	{"مجهول الحال", ReputationUnknown, 4},
	{"مجهول", ReputationUnknown, 4},
	{"majhul", ReputationUnknown, 4},

	{"مقبول", ReputationAcceptable, 3},
	{"لا باس به", ReputationAcceptable, 3},
	{"maqbul", ReputationAcceptable, 3},

	{"صدوق يهم", ReputationTruthful, 2},
	{"صدوق", ReputationTruthful, 2},
	{"saduq", ReputationTruthful, 2},
	{"truthful", ReputationTruthful, 2},

	{"ثقه ثبت", ReputationTrustworthy, 1},
	{"ثقه حافظ", ReputationTrustworthy, 1},
	{"ثقه", ReputationTrustworthy, 1},
	{"ثبت", ReputationTrustworthy, 1},
	{"حجه", ReputationTrustworthy, 1},
	{"thiqa", ReputationTrustworthy, 1},
	{"thiqah", ReputationTrustworthy, 1},
	{"trustworthy", ReputationTrustworthy, 1},
	{"reliable", ReputationTrustworthy, 1},
}

// byLength orders keywords longest first so compound grades claim their
// text span before the shorter keywords they contain.
var byLength = func() []grade {
	sorted := make([]grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].keyword) > len(sorted[j].keyword)
	})
	return sorted
}()

type span struct{ start, end int }

// Match is one keyword occurrence found in an opinion text.
type Match struct {
	Keyword  string `json:"keyword"`
	Label    string `json:"label"`
	severity int
}

// ExtractMatches finds all grade keyword occurrences in an opinion text.
// Each byte of the text belongs to at most one match: occurrences are
// claimed longest keyword first, and a later keyword is skipped wherever
// it overlaps an already-claimed span.
func ExtractMatches(opinion string) []Match {
	text := matching.NormalizeSearchTerm(opinion)
	if text == "" {
		return nil
	}

	var (
		claimed []span
		matches []Match
	)
	for _, g := range byLength {
		offset := 0
		for {
			i := strings.Index(text[offset:], g.keyword)
			if i < 0 {
				break
			}
			start := offset + i
			end := start + len(g.keyword)
			offset = end
			if overlaps(claimed, start, end) {
				continue
			}
			claimed = append(claimed, span{start, end})
			matches = append(matches, Match{Keyword: g.keyword, Label: g.label, severity: g.severity})
		}
	}
	return matches
}

// ExtractReputation maps an opinion text to a single reputation label.
// When a text carries several grades, the most severe one wins; an empty
// string means no known grade keyword was found.
func ExtractReputation(opinion string) string {
	matches := ExtractMatches(opinion)
	if len(matches) == 0 {
		return ""
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.severity > best.severity {
			best = m
		}
	}
	return best.Label
}

func overlaps(claimed []span, start, end int) bool {
	for _, s := range claimed {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}
