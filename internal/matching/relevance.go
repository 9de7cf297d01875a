package matching

import "strings"

// Similarity bands shared by all tiered fields. A near-exact hit on a high
// priority field dominates the composite score.
var bandFloors = [...]float64{0.95, 0.8, 0.6, 0.4}

// Per-field point tables, one value per band plus a floor award for any
// non-zero similarity. Field priority: full name > kunya > primary name.
var (
	fullNamePoints    = [...]float64{100, 80, 60, 40, 20}
	kunyaPoints       = [...]float64{70, 55, 40, 25, 12}
	primaryNamePoints = [...]float64{100, 80, 50, 30, 15}

	// Joined-phrase bonus pass for multi-term queries, same bands with
	// smaller awards.
	phraseFullNamePoints    = [...]float64{50, 40, 30, 20, 10}
	phraseKunyaPoints       = [...]float64{35, 27, 20, 12, 6}
	phrasePrimaryNamePoints = [...]float64{50, 40, 25, 15, 7}
)

// English name awards: exact, word-start, substring.
const (
	englishExactPoints     = 100
	englishWordStartPoints = 50
	englishSubstringPoints = 20
)

// Flat containment bonuses for descriptive fields.
const (
	titlePoints    = 15
	lineagePoints  = 35
	freeTextPoints = 5
)

// compoundBonus rewards a query that hits both the kunya and a name field,
// e.g. "Abu Hurayra": no single field captures the whole query.
const (
	compoundBonus = 50
	compoundFloor = 0.4
)

// SearchFilters restricts registry search by scholarly classification.
// Groups are AND-combined; values within a group are OR-combined and
// matched by substring.
type SearchFilters struct {
	TaqribRanks []string `json:"taqribRanks,omitempty"`
	Generations []string `json:"generations,omitempty"`
	Residences  []string `json:"residences,omitempty"`
}

// Matches reports whether the record passes every active filter group.
func (f SearchFilters) Matches(rec *NarratorRecord) bool {
	return matchesGroup(rec.TaqribRank, f.TaqribRanks) &&
		matchesGroup(rec.Generation, f.Generations) &&
		matchesGroup(rec.Residence, f.Residences)
}

func matchesGroup(value string, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	v := NormalizeSearchTerm(value)
	for _, a := range accepted {
		if a == "" {
			continue
		}
		if strings.Contains(v, NormalizeSearchTerm(a)) {
			return true
		}
	}
	return false
}

// RelevanceScore computes the composite search relevance of a record for a
// set of search terms. normalizedTerms have been through
// NormalizeSearchTerm; originalTerms are the user's raw tokens, used for
// the containment checks on descriptive fields.
func RelevanceScore(rec *NarratorRecord, normalizedTerms, originalTerms []string) float64 {
	score := 0.0
	kunyaHit := false
	nameHit := false

	fullAr := NormalizeArabic(rec.FullNameArabic)
	primaryAr := NormalizeArabic(rec.PrimaryArabicName)
	kunya := NormalizeArabic(rec.Kunya)

	for _, term := range normalizedTerms {
		if term == "" {
			continue
		}

		if s := fieldSimilarity(term, fullAr); s > 0 {
			score += bandScore(s, fullNamePoints)
			if s >= compoundFloor {
				nameHit = true
			}
		}
		if s := fieldSimilarity(term, kunya); s > 0 {
			score += bandScore(s, kunyaPoints)
			if s >= compoundFloor {
				kunyaHit = true
			}
		}
		if s := fieldSimilarity(term, primaryAr); s > 0 {
			score += bandScore(s, primaryNamePoints)
			if s >= compoundFloor {
				nameHit = true
			}
		}

		score += englishNameScore(term, rec.PrimaryEnglishName)
		score += englishNameScore(term, rec.FullNameEnglish)
	}

	for _, term := range originalTerms {
		t := NormalizeSearchTerm(term)
		if t == "" {
			continue
		}
		if containsNormalized(rec.Title, t) {
			score += titlePoints
		}
		if containsNormalized(rec.Lineage, t) {
			score += lineagePoints
		}
		if containsNormalized(rec.Biography, t) {
			score += freeTextPoints
		}
	}

	// Whole-phrase pass: reward records where the full query, not just
	// individual terms, matches strongly.
	if len(normalizedTerms) > 1 {
		phrase := strings.Join(normalizedTerms, " ")
		if s := fieldSimilarity(phrase, fullAr); s > 0 {
			score += bandScore(s, phraseFullNamePoints)
		}
		if s := fieldSimilarity(phrase, kunya); s > 0 {
			score += bandScore(s, phraseKunyaPoints)
		}
		if s := fieldSimilarity(phrase, primaryAr); s > 0 {
			score += bandScore(s, phrasePrimaryNamePoints)
		}
	}

	if kunyaHit && nameHit {
		score += compoundBonus
	}

	return score
}

// fieldSimilarity scores a normalized term against a normalized field,
// choosing the Arabic or English scorer by script.
func fieldSimilarity(term, field string) float64 {
	if term == "" || field == "" {
		return 0
	}
	if IsArabicScript(term) || IsArabicScript(field) {
		return SimilarityArabic(term, field)
	}
	return SimilarityEnglish(term, field)
}

// bandScore maps a similarity to the point award for its band.
func bandScore(sim float64, points [5]float64) float64 {
	for i, floor := range bandFloors {
		if sim >= floor {
			return points[i]
		}
	}
	if sim > 0 {
		return points[4]
	}
	return 0
}

// englishNameScore awards points for word-boundary matches on an English
// name field: exact, word-start, then plain substring.
func englishNameScore(term, field string) float64 {
	f := NormalizeEnglish(field)
	if term == "" || f == "" || IsArabicScript(term) {
		return 0
	}
	if f == term {
		return englishExactPoints
	}
	for _, w := range strings.Fields(f) {
		if strings.HasPrefix(w, term) {
			return englishWordStartPoints
		}
	}
	if strings.Contains(f, term) {
		return englishSubstringPoints
	}
	return 0
}

func containsNormalized(field, normalizedTerm string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(NormalizeSearchTerm(field), normalizedTerm)
}
