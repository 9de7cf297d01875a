package matching

import "sort"

// NarratorRecord is the read-only registry view the matcher scores against.
// It is constructed at the storage boundary; the matcher never sees raw rows.
type NarratorRecord struct {
	ID                 string
	PrimaryArabicName  string
	PrimaryEnglishName string
	FullNameArabic     string
	FullNameEnglish    string
	Kunya              string
	Title              string
	Lineage            string
	Biography          string

	AlternateArabicNames  []string
	AlternateEnglishNames []string

	// Scholarly classification fields, used only for search filtering.
	TaqribRank   string
	IbnHajarRank string
	DhahabiRank  string
	Generation   string
	Residence    string
}

// MatchCandidate is one ranked result of a registry match.
type MatchCandidate struct {
	NarratorID  string          `json:"narratorId"`
	Confidence  float64         `json:"confidence"`
	MatchedName string          `json:"matchedName"`
	Record      *NarratorRecord `json:"record,omitempty"`
}

// Policy holds the tunable matching constants. The defaults mirror the
// values the scoring model was calibrated with; they are configuration,
// not invariants.
type Policy struct {
	// CrossScriptDiscount is applied when an English-only query is scored
	// against a record's Arabic name as a last-resort signal.
	CrossScriptDiscount float64
	// ConfidenceFloor is the minimum similarity for a candidate to be
	// returned at all; below it, matches are considered noise.
	ConfidenceFloor float64
}

// DefaultPolicy returns the standard matching policy.
func DefaultPolicy() Policy {
	return Policy{
		CrossScriptDiscount: 0.7,
		ConfidenceFloor:     0.3,
	}
}

// Matcher resolves free-text narrator names against registry records.
type Matcher struct {
	policy Policy
}

// NewMatcher creates a matcher with the given policy. Zero-valued policy
// fields fall back to the defaults.
func NewMatcher(policy Policy) *Matcher {
	def := DefaultPolicy()
	if policy.CrossScriptDiscount <= 0 {
		policy.CrossScriptDiscount = def.CrossScriptDiscount
	}
	if policy.ConfidenceFloor <= 0 {
		policy.ConfidenceFloor = def.ConfidenceFloor
	}
	return &Matcher{policy: policy}
}

// FindMatches scans the registry and returns candidates whose best
// name-field similarity clears the confidence floor, sorted by confidence
// descending with ties broken by primary Arabic name ascending. With no
// query it returns nil: "no query" and "no matches" are the same outcome.
func (m *Matcher) FindMatches(records []*NarratorRecord, arabicQuery, englishQuery string) []MatchCandidate {
	if arabicQuery == "" && englishQuery == "" {
		return nil
	}

	var candidates []MatchCandidate
	for _, rec := range records {
		best, field := m.scoreRecord(rec, arabicQuery, englishQuery)
		if best < m.policy.ConfidenceFloor {
			continue
		}
		candidates = append(candidates, MatchCandidate{
			NarratorID:  rec.ID,
			Confidence:  best,
			MatchedName: field,
			Record:      rec,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Record.PrimaryArabicName < candidates[j].Record.PrimaryArabicName
	})

	return candidates
}

// scoreRecord returns the best similarity across the record's name fields
// and the field label it came from.
func (m *Matcher) scoreRecord(rec *NarratorRecord, arabicQuery, englishQuery string) (float64, string) {
	best := 0.0
	field := ""

	track := func(sim float64, name string) {
		if sim > best {
			best = sim
			field = name
		}
	}

	if arabicQuery != "" {
		track(SimilarityArabic(arabicQuery, rec.PrimaryArabicName), rec.PrimaryArabicName)
		track(SimilarityArabic(arabicQuery, rec.FullNameArabic), rec.FullNameArabic)
		track(SimilarityArabic(arabicQuery, rec.Kunya), rec.Kunya)
		for _, alt := range rec.AlternateArabicNames {
			track(SimilarityArabic(arabicQuery, alt), alt)
		}
	}

	if englishQuery != "" {
		track(SimilarityEnglish(englishQuery, rec.PrimaryEnglishName), rec.PrimaryEnglishName)
		track(SimilarityEnglish(englishQuery, rec.FullNameEnglish), rec.FullNameEnglish)
		for _, alt := range rec.AlternateEnglishNames {
			track(SimilarityEnglish(englishQuery, alt), alt)
		}
	}

	// Last-resort signal for a transliterated query against an
	// Arabic-only record.
	if arabicQuery == "" && englishQuery != "" {
		track(SimilarityArabic(englishQuery, rec.PrimaryArabicName)*m.policy.CrossScriptDiscount, rec.PrimaryArabicName)
	}

	return best, field
}
