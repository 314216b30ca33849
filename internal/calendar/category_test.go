package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTaxonomyIsComplete(t *testing.T) {
	t.Parallel()

	seenDomains := map[Domain]int{}
	for i, c := range Categories() {
		info, ok := c.Info()
		require.True(t, ok, "category %q has no info", c)
		assert.NotEmpty(t, info.Label, "category %q label", c)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, info.Color)
		assert.Equal(t, i, c.Rank())
		seenDomains[info.Domain]++
	}

	for _, d := range Domains() {
		assert.Positive(t, seenDomains[d], "domain %s has no categories", d)
		assert.Len(t, CategoriesIn(d), seenDomains[d])
	}
	assert.Len(t, seenDomains, 4)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	c, err := ParseCategory(" HVAC_Service ")
	require.NoError(t, err)
	assert.Equal(t, CategoryHVAC, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, Uncategorized, c)
	assert.Equal(t, "Uncategorized", c.Label())
	assert.Equal(t, len(Categories()), c.Rank())

	_, err = ParseCategory("knitting")
	assert.Error(t, err)
	assert.False(t, Category("knitting").Valid())
}
