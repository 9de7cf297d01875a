package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReputation(t *testing.T) {
	tests := []struct {
		name    string
		opinion string
		want    string
	}{
		{"trustworthy arabic", "قال ابن حجر: ثقة ثبت", ReputationTrustworthy},
		{"trustworthy folded form", "ثقه حافظ", ReputationTrustworthy},
		{"truthful", "صدوق يهم قليلا", ReputationTruthful},
		{"weak", "ضعيف الحديث", ReputationWeak},
		{"abandoned", "متروك الحديث", ReputationAbandoned},
		{"accused", "كذاب يضع الحديث", ReputationAccused},
		{"acceptable with hamza", "لا بأس به", ReputationAcceptable},
		{"unknown narrator", "مجهول الحال", ReputationUnknown},
		{"english transliteration", "Graded saduq by al-Dhahabi", ReputationTruthful},
		{"english plain", "considered trustworthy by most", ReputationTrustworthy},
		{"no keyword", "روى عنه جماعة", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractReputation(tt.opinion))
		})
	}
}

func TestExtractReputationMostSevereWins(t *testing.T) {
	// A text quoting both an endorsement and a criticism resolves to the
	// criticism.
	got := ExtractReputation("وثقه قوم وقال احمد ضعيف")
	assert.Equal(t, ReputationWeak, got)
}

func TestExtractMatchesClaimsSpansLongestFirst(t *testing.T) {
	matches := ExtractMatches("ضعيف جدا")

	// "ضعيف جدا" owns the whole span; the bare "ضعيف" keyword must not
	// produce a second match inside it.
	assert.Len(t, matches, 1)
	assert.Equal(t, "ضعيف جدا", matches[0].Keyword)
	assert.Equal(t, ReputationWeak, matches[0].Label)
}

func TestExtractMatchesRepeatedKeyword(t *testing.T) {
	matches := ExtractMatches("ثقة ثقة مامون")

	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, ReputationTrustworthy, m.Label)
	}
}
