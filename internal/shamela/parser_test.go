package shamela

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html dir="rtl">
<head><title>صحيح البخاري</title></head>
<body>
  <h1>صحيح البخاري</h1>
  <div class="nass">
    <p>حدثنا الحميدي عبد الله بن الزبير قال حدثنا سفيان قال حدثنا يحيى بن سعيد الأنصاري</p>
    <p>إنما الأعمال بالنيات وإنما لكل امرئ ما نوى</p>
    <div class="hamesh">
      <p>تعليق في الهامش لا يدخل في النص</p>
    </div>
    <p></p>
  </div>
  <input id="fld_goto_bottom" value="3">
</body>
</html>`

func TestParsePage(t *testing.T) {
	page, err := ParsePage(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "صحيح البخاري", page.BookTitle)
	assert.Equal(t, "3", page.PageNumber)

	require.Len(t, page.Entries, 2)
	assert.Contains(t, page.Entries[0], "حدثنا الحميدي")
	assert.Contains(t, page.Entries[1], "إنما الأعمال بالنيات")
}

func TestParsePageEmptyBody(t *testing.T) {
	page, err := ParsePage(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	assert.Empty(t, page.Entries)
	assert.Empty(t, page.BookTitle)
}

func TestLoadSources(t *testing.T) {
	sources, err := LoadSources()
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	for _, src := range sources {
		assert.NotEmpty(t, src.Collection)
		assert.Greater(t, src.BookID, 0)
		assert.GreaterOrEqual(t, src.EndPage, src.StartPage)
	}
}
