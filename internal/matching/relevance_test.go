package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func relevanceTerms(raw ...string) (normalized, original []string) {
	for _, r := range raw {
		normalized = append(normalized, NormalizeSearchTerm(r))
	}
	return normalized, raw
}

func TestRelevanceScore_ExactFullNameDominates(t *testing.T) {
	exact := &NarratorRecord{FullNameArabic: "عبد الله بن عمر بن الخطاب"}
	partial := &NarratorRecord{FullNameArabic: "عبد الله بن عمرو بن العاص"}

	normalized, original := relevanceTerms("عبد الله بن عمر بن الخطاب")

	assert.Greater(t,
		RelevanceScore(exact, normalized, original),
		RelevanceScore(partial, normalized, original))
}

func TestRelevanceScore_CompoundKunyaNameBonus(t *testing.T) {
	both := &NarratorRecord{
		Kunya:             "أبو",
		PrimaryArabicName: "هريرة",
	}
	nameOnly := &NarratorRecord{
		PrimaryArabicName: "هريرة",
	}

	normalized, original := relevanceTerms("ابو", "هريرة")

	withBonus := RelevanceScore(both, normalized, original)
	without := RelevanceScore(nameOnly, normalized, original)

	// The kunya award plus the compound bonus must beat a record that
	// matches only the name field.
	assert.Greater(t, withBonus, without+compoundBonus)
}

func TestRelevanceScore_EnglishWordBoundary(t *testing.T) {
	rec := &NarratorRecord{PrimaryEnglishName: "Umar ibn al-Khattab"}

	normalized, original := relevanceTerms("umar")
	wordStart := RelevanceScore(rec, normalized, original)

	normalized, original = relevanceTerms("mar")
	substring := RelevanceScore(rec, normalized, original)

	assert.Greater(t, wordStart, substring)
	assert.Greater(t, substring, 0.0)
}

func TestRelevanceScore_LineageAndTitleBonuses(t *testing.T) {
	rec := &NarratorRecord{
		Title:   "الحافظ",
		Lineage: "القرشي العدوي",
	}

	normalized, original := relevanceTerms("القرشي")
	withLineage := RelevanceScore(rec, normalized, original)

	normalized, original = relevanceTerms("الحافظ")
	withTitle := RelevanceScore(rec, normalized, original)

	assert.Greater(t, withLineage, 0.0)
	assert.Greater(t, withTitle, 0.0)
}

func TestRelevanceScore_MultiTermPhraseBonus(t *testing.T) {
	rec := &NarratorRecord{FullNameArabic: "عبد الله بن عمر"}

	multiNorm, multiOrig := relevanceTerms("عبد", "الله")
	singleNorm, singleOrig := relevanceTerms("عبد")

	assert.Greater(t,
		RelevanceScore(rec, multiNorm, multiOrig),
		RelevanceScore(rec, singleNorm, singleOrig))
}

func TestRelevanceScore_EmptyTermsScoreZero(t *testing.T) {
	rec := &NarratorRecord{FullNameArabic: "عبد الله بن عمر"}
	assert.Equal(t, 0.0, RelevanceScore(rec, nil, nil))
	assert.Equal(t, 0.0, RelevanceScore(rec, []string{""}, []string{""}))
}

func TestSearchFilters_Matches(t *testing.T) {
	rec := &NarratorRecord{
		TaqribRank: "ثقة",
		Generation: "الطبقة الثالثة",
		Residence:  "المدينة",
	}

	assert.True(t, SearchFilters{}.Matches(rec))
	assert.True(t, SearchFilters{TaqribRanks: []string{"ثقة"}}.Matches(rec))
	assert.True(t, SearchFilters{
		TaqribRanks: []string{"صدوق", "ثقة"}, // OR within a group
		Residences:  []string{"المدينة"},
	}.Matches(rec))

	assert.False(t, SearchFilters{TaqribRanks: []string{"ضعيف"}}.Matches(rec))
	assert.False(t, SearchFilters{
		TaqribRanks: []string{"ثقة"},
		Residences:  []string{"الكوفة"}, // AND across groups
	}.Matches(rec))
}

func TestBandScore(t *testing.T) {
	pts := [5]float64{100, 80, 60, 40, 20}

	assert.Equal(t, 100.0, bandScore(1.0, pts))
	assert.Equal(t, 100.0, bandScore(0.95, pts))
	assert.Equal(t, 80.0, bandScore(0.85, pts))
	assert.Equal(t, 60.0, bandScore(0.7, pts))
	assert.Equal(t, 40.0, bandScore(0.5, pts))
	assert.Equal(t, 20.0, bandScore(0.1, pts))
	assert.Equal(t, 0.0, bandScore(0.0, pts))
}
