package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() []*NarratorRecord {
	return []*NarratorRecord{
		{
			ID:                 "n-hurayra",
			PrimaryArabicName:  "أبو هريرة",
			PrimaryEnglishName: "Abu Hurayra",
			FullNameArabic:     "عبد الرحمن بن صخر الدوسي",
			Kunya:              "أبو هريرة",
		},
		{
			ID:                 "n-umar",
			PrimaryArabicName:  "عمر بن الخطاب",
			PrimaryEnglishName: "Umar ibn al-Khattab",
			Kunya:              "أبو حفص",
		},
		{
			ID:                "n-uthman",
			PrimaryArabicName: "عثمان بن عفان",
		},
	}
}

func TestFindMatches_NoQuery(t *testing.T) {
	m := NewMatcher(DefaultPolicy())
	assert.Empty(t, m.FindMatches(testRegistry(), "", ""))
}

func TestFindMatches_ExactArabicMatch(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	matches := m.FindMatches([]*NarratorRecord{{
		ID:                "n-hurayra",
		PrimaryArabicName: "أبو هريرة",
	}}, "أبو هريرة", "")

	require.Len(t, matches, 1)
	assert.Equal(t, "n-hurayra", matches[0].NarratorID)
	assert.Equal(t, 1.0, matches[0].Confidence)
}

func TestFindMatches_PossessiveKunyaQuery(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	matches := m.FindMatches(testRegistry(), "أبي هريرة", "")

	require.NotEmpty(t, matches)
	assert.Equal(t, "n-hurayra", matches[0].NarratorID)
	assert.Equal(t, 1.0, matches[0].Confidence)
}

func TestFindMatches_ConfidenceFloor(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	for _, query := range []string{"أبو هريرة", "عمر", "محمد بن سيرين"} {
		for _, c := range m.FindMatches(testRegistry(), query, "") {
			assert.GreaterOrEqual(t, c.Confidence, 0.3, "query %q", query)
		}
	}
}

func TestFindMatches_SortOrderDeterministic(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	// Both records contain the query as a substring at the same length
	// ratio, so their confidences tie and the Arabic name breaks the tie.
	records := []*NarratorRecord{
		{ID: "b", PrimaryArabicName: "محمد بن اسحاق"},
		{ID: "a", PrimaryArabicName: "محمد بن ادريس"},
	}

	matches := m.FindMatches(records, "محمد", "")
	require.Len(t, matches, 2)

	assert.Equal(t, matches[0].Confidence, matches[1].Confidence)
	assert.Equal(t, "a", matches[0].NarratorID)
	assert.Equal(t, "b", matches[1].NarratorID)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Confidence, matches[i].Confidence)
	}
}

func TestFindMatches_EnglishQuery(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	matches := m.FindMatches(testRegistry(), "", "Umar ibn al-Khattab")

	require.NotEmpty(t, matches)
	assert.Equal(t, "n-umar", matches[0].NarratorID)
	assert.Equal(t, 1.0, matches[0].Confidence)
}

func TestFindMatches_CrossScriptDiscountKeepsNoiseOut(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	// "Umar" against a record whose only name is unrelated Arabic text:
	// the discounted cross-script score must stay below the floor.
	matches := m.FindMatches([]*NarratorRecord{{
		ID:                "n-uthman",
		PrimaryArabicName: "عثمان بن عفان",
	}}, "", "Umar")

	assert.Empty(t, matches)
}

func TestFindMatches_MatchedNameTracksBestField(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	matches := m.FindMatches([]*NarratorRecord{{
		ID:                "n-hurayra",
		PrimaryArabicName: "عبد الرحمن بن صخر",
		Kunya:             "أبو هريرة",
	}}, "أبو هريرة", "")

	require.Len(t, matches, 1)
	assert.Equal(t, "أبو هريرة", matches[0].MatchedName)
}

func TestFindMatches_AlternateNames(t *testing.T) {
	m := NewMatcher(DefaultPolicy())

	matches := m.FindMatches([]*NarratorRecord{{
		ID:                   "n-hurayra",
		PrimaryArabicName:    "أبو هريرة",
		AlternateArabicNames: []string{"عبد الرحمن بن صخر"},
	}}, "عبد الرحمن بن صخر", "")

	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Confidence)
	assert.Equal(t, "عبد الرحمن بن صخر", matches[0].MatchedName)
}

func TestNewMatcher_ZeroPolicyFallsBackToDefaults(t *testing.T) {
	m := NewMatcher(Policy{})
	assert.Equal(t, DefaultPolicy(), m.policy)
}
