package matching

import "strings"

// Component weights for the Arabic blend. The father name dominates: it is
// the single most distinguishing field between two otherwise-similar chains.
const (
	weightFirstName   = 0.20
	weightFather      = 0.35
	weightGrandfather = 0.25
	weightFamily      = 0.15
	weightOtherParts  = 0.05
)

// Thresholds and penalties for component disagreement.
const (
	firstNameGate        = 0.8 // below this the whole score collapses to 0
	fatherPenaltyFloor   = 0.7
	fatherPenaltyFactor  = 0.4
	missingGrandfatherUp = 0.05 // fraction of the weight credited when one side lacks it
	missingFamilyUp      = 0.03
	prefixDiscount       = 0.9  // prefix matches rank below full word overlap
	containmentCap       = 0.95 // substring containment never beats an exact match
)

// SimilarityEnglish scores two Latin-script names in [0,1]: exact match,
// else the better of word-set Jaccard and a discounted best word-prefix
// ratio.
func SimilarityEnglish(a, b string) float64 {
	na, nb := NormalizeEnglish(a), NormalizeEnglish(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	wordsA, wordsB := strings.Fields(na), strings.Fields(nb)
	jaccard := wordSetJaccard(wordsA, wordsB)

	best := 0.0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if strings.HasPrefix(wa, wb) || strings.HasPrefix(wb, wa) {
				la, lb := len([]rune(wa)), len([]rune(wb))
				if r := lengthRatio(la, lb); r > best {
					best = r
				}
			}
		}
	}

	return max(jaccard, best*prefixDiscount)
}

// SimilarityArabic scores two Arabic names in [0,1] via exact match,
// substring containment, then a weighted component blend over the
// decomposed names.
func SimilarityArabic(a, b string) float64 {
	na, nb := NormalizeArabic(a), NormalizeArabic(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		r := lengthRatio(len([]rune(na)), len([]rune(nb)))
		return min(containmentCap, r)
	}

	ca, cb := DecomposeName(a), DecomposeName(b)

	var score, total float64

	if ca.FirstName != "" || cb.FirstName != "" {
		total += weightFirstName
		if ca.FirstName != "" && cb.FirstName != "" {
			ws := wordSim(ca.FirstName, cb.FirstName)
			if ws < firstNameGate {
				// First-name disagreement is disqualifying: it is the
				// primary collision risk between unrelated people sharing
				// a lineage pattern.
				return 0
			}
			score += weightFirstName * ws
		}
	}

	fatherMismatch := false
	if ca.FatherName != "" || cb.FatherName != "" {
		total += weightFather
		if ca.FatherName != "" && cb.FatherName != "" {
			ws := wordSim(ca.FatherName, cb.FatherName)
			score += weightFather * ws
			if ws < fatherPenaltyFloor {
				fatherMismatch = true
			}
		}
		// A father name on one side only contributes nothing: treated as a
		// stronger mismatch signal than the other optional components.
	}

	if ca.GrandfatherName != "" || cb.GrandfatherName != "" {
		total += weightGrandfather
		if ca.GrandfatherName != "" && cb.GrandfatherName != "" {
			score += weightGrandfather * wordSim(ca.GrandfatherName, cb.GrandfatherName)
		} else {
			score += weightGrandfather * missingGrandfatherUp
		}
	}

	if ca.FamilyName != "" || cb.FamilyName != "" {
		total += weightFamily
		if ca.FamilyName != "" && cb.FamilyName != "" {
			score += weightFamily * wordSim(ca.FamilyName, cb.FamilyName)
		} else {
			score += weightFamily * missingFamilyUp
		}
	}

	if len(ca.OtherParts) > 0 || len(cb.OtherParts) > 0 {
		total += weightOtherParts
		if len(ca.OtherParts) > 0 && len(cb.OtherParts) > 0 {
			score += weightOtherParts * wordSim(strings.Join(ca.OtherParts, " "), strings.Join(cb.OtherParts, " "))
		}
	}

	if total == 0 {
		return wordSetJaccard(strings.Fields(na), strings.Fields(nb))
	}

	result := score / total
	if fatherMismatch {
		// A weak father-name match downgrades an otherwise-positive score.
		result *= fatherPenaltyFactor
	}
	return min(result, 1)
}

// wordSim scores two single words: exact match, substring containment
// ratio, then unique-character Jaccard as a crude typo-tolerant fallback.
func wordSim(w1, w2 string) float64 {
	if w1 == "" || w2 == "" {
		return 0
	}
	if w1 == w2 {
		return 1
	}
	if strings.Contains(w1, w2) || strings.Contains(w2, w1) {
		return lengthRatio(len([]rune(w1)), len([]rune(w2)))
	}

	setA := runeSet(w1)
	setB := runeSet(w2)
	inter := 0
	for r := range setA {
		if setB[r] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSetJaccard(wordsA, wordsB []string) float64 {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}
	inter := 0
	for w := range setA {
		if setB[w] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func lengthRatio(la, lb int) float64 {
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
