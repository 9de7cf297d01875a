package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecomposeName_FullLineage(t *testing.T) {
	c := DecomposeName("عبد الله بن عمر بن الخطاب")

	assert.Equal(t, "عبد الله", c.FirstName)
	assert.Equal(t, "عمر", c.FatherName)
	assert.Equal(t, "الخطاب", c.GrandfatherName)
	assert.Empty(t, c.FamilyName)
	assert.Empty(t, c.OtherParts)
}

func TestDecomposeName_KunyaPrefix(t *testing.T) {
	c := DecomposeName("أبو هريرة")

	assert.Equal(t, "هريره", c.FirstName)
	assert.Empty(t, c.FatherName)
}

func TestDecomposeName_KunyaThenLineage(t *testing.T) {
	c := DecomposeName("أبو بكر بن عياش")

	assert.Equal(t, "بكر", c.FirstName)
	assert.Equal(t, "عياش", c.FatherName)
}

func TestDecomposeName_NoParticles(t *testing.T) {
	c := DecomposeName("مالك")

	assert.Equal(t, "مالك", c.FirstName)
	assert.Empty(t, c.FatherName)
	assert.Empty(t, c.GrandfatherName)
	assert.Empty(t, c.FamilyName)
}

func TestDecomposeName_FamilyName(t *testing.T) {
	c := DecomposeName("سفيان بن عيينة الهلالي")

	assert.Equal(t, "سفيان", c.FirstName)
	assert.Equal(t, "عيينه", c.FatherName)
	assert.Equal(t, "الهلالي", c.FamilyName)
}

func TestDecomposeName_SecondFamilyCandidateGoesToOtherParts(t *testing.T) {
	c := DecomposeName("سفيان بن عيينة الهلالي الكوفي")

	assert.Equal(t, "الهلالي", c.FamilyName)
	assert.Equal(t, []string{"الكوفي"}, c.OtherParts)
}

func TestDecomposeName_DeepLineageOverflowsToOtherParts(t *testing.T) {
	c := DecomposeName("محمد بن اسماعيل بن ابراهيم بن المغيرة")

	assert.Equal(t, "محمد", c.FirstName)
	assert.Equal(t, "اسماعيل", c.FatherName)
	assert.Equal(t, "ابراهيم", c.GrandfatherName)
	assert.Equal(t, []string{"المغيره"}, c.OtherParts)
}

func TestDecomposeName_Empty(t *testing.T) {
	c := DecomposeName("")

	assert.Empty(t, c.FirstName)
	assert.Empty(t, c.FatherName)
	assert.Empty(t, c.GrandfatherName)
	assert.Empty(t, c.FamilyName)
	assert.Empty(t, c.OtherParts)
}

func TestDecomposeName_SingleRuneTokensDropped(t *testing.T) {
	c := DecomposeName("و مالك")

	assert.Equal(t, "مالك", c.FirstName)
}
