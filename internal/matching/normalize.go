// Package matching implements narrator identity resolution: Arabic/English
// name normalization, structured decomposition of Arabic patronymic names,
// weighted similarity scoring, candidate matching against the narrator
// registry, and relevance scoring for registry search.
//
// Every function in this package is pure and total: no I/O, no errors,
// safe for concurrent use.
package matching

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	alef            = 'ا'
	alefMadda       = 'آ'
	alefHamzaAbove  = 'أ'
	alefHamzaBelow  = 'إ'
	yeh             = 'ي'
	alefMaksura     = 'ى'
	tehMarbuta      = 'ة'
	heh             = 'ه'
	tatweel         = 'ـ'
	fathatan        = 'ً'
	dammatan        = 'ٌ'
	kasratan        = 'ٍ'
	fatha           = 'َ'
	damma           = 'ُ'
	kasra           = 'ِ'
	shadda          = 'ّ'
	sukun           = 'ْ'
	superscriptAlef = 'ٰ'
)

// kunyaNominative is the canonical "father of" token. The possessive
// spelling folds to it so both forms of a kunya compare equal.
const (
	kunyaNominative = "ابو"
	kunyaPossessive = "ابي"
)

// NormalizeArabic canonicalizes Arabic text for comparison: harakat are
// stripped, alef variants fold to bare alef, alef maksura folds to yeh,
// teh marbuta folds to heh, the possessive kunya spelling folds to the
// nominative form, and whitespace is collapsed. Idempotent.
func NormalizeArabic(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFC.String(text) {
		switch r {
		case alefMadda, alefHamzaAbove, alefHamzaBelow:
			b.WriteRune(alef)
		case alefMaksura:
			b.WriteRune(yeh)
		case tehMarbuta:
			b.WriteRune(heh)
		case tatweel, fathatan, dammatan, kasratan, fatha, damma, kasra, shadda, sukun, superscriptAlef:
			// dropped
		default:
			b.WriteRune(r)
		}
	}

	tokens := strings.Fields(strings.ToLower(b.String()))
	for i, tok := range tokens {
		if tok == kunyaPossessive {
			tokens[i] = kunyaNominative
		}
	}
	return strings.Join(tokens, " ")
}

// NormalizeEnglish canonicalizes Latin-script text: trim and lowercase.
// Idempotent.
func NormalizeEnglish(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// NormalizeSearchTerm dispatches to the Arabic or English normalizer
// based on the detected script.
func NormalizeSearchTerm(text string) string {
	if IsArabicScript(text) {
		return NormalizeArabic(text)
	}
	return NormalizeEnglish(text)
}
