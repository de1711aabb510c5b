package catalog

import (
	"testing"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []domain.CatalogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestFromProducts(t *testing.T) {
	raw := SampleProducts()
	entries := FromProducts(raw)

	require.Len(t, entries, len(raw))
	assert.Equal(t, domain.CatalogEntry{
		ID: "P0025", Name: "Kellogg's Corn Flakes", Category: "Breakfast & Mixes", RemainingStock: 9, SupplierID: "SPL007",
	}, entries[0])
}

func TestCategories(t *testing.T) {
	got := Categories(FromProducts(SampleProducts()))
	assert.Equal(t, []string{"Biscuits", "Breakfast & Mixes", "Dairy"}, got)

	assert.NotNil(t, Categories(nil))
	assert.Empty(t, Categories(nil))
}

func TestInCategory(t *testing.T) {
	entries := FromProducts(SampleProducts())

	assert.Equal(t, []string{"Amul Butter", "amul taaza milk"}, names(InCategory(entries, "Dairy")))
	assert.Empty(t, InCategory(entries, ""))
	assert.Empty(t, InCategory(entries, "Frozen"))
}

func TestSortedByNameIsCaseRespecting(t *testing.T) {
	entries := FromProducts(SampleProducts())

	got := SortedByName(entries)
	assert.Equal(t, []string{
		"Amul Butter",
		"Britannia Good Day",
		"Kellogg's Corn Flakes",
		"MTR Dosa Mix",
		"amul taaza milk",
	}, names(got))
	assert.Equal(t, "P0025", entries[0].ID, "input must not be reordered")
}

func TestFind(t *testing.T) {
	entries := FromProducts(SampleProducts())

	got := Find(entries, "P0040")
	require.NotNil(t, got)
	assert.Equal(t, "Britannia Good Day", got.Name)

	got.Name = "changed"
	assert.Equal(t, "Britannia Good Day", entries[4].Name)

	assert.Nil(t, Find(entries, "missing"))
	assert.Nil(t, Find(entries, ""))
}
