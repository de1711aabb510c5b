// Package catalog derives the reorder screen's lists from a catalog snapshot.
package catalog

import (
	"sort"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

// FromProducts maps the catalog service payload into entries, keeping order.
func FromProducts(products []domain.CatalogProduct) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, domain.CatalogEntry{
			ID:             p.ID,
			Name:           p.Name,
			Category:       p.Category,
			RemainingStock: p.RemainingStock,
			SupplierID:     p.SupplierID,
		})
	}
	return entries
}

// Categories returns the distinct categories, sorted.
func Categories(entries []domain.CatalogEntry) []string {
	seen := make(map[string]struct{})
	cats := make([]string, 0)
	for _, e := range entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		cats = append(cats, e.Category)
	}
	sort.Strings(cats)
	return cats
}

// InCategory returns the entries of one category in catalog order.
// An empty category selects nothing.
func InCategory(entries []domain.CatalogEntry, category string) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, 0)
	if category == "" {
		return out
	}
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// SortedByName returns the full catalog ordered by name for quick reorder.
// Comparison is byte-wise, so upper case sorts before lower case.
func SortedByName(entries []domain.CatalogEntry) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Find looks an entry up by id. It returns nil when the id is unknown or empty.
func Find(entries []domain.CatalogEntry, id string) *domain.CatalogEntry {
	if id == "" {
		return nil
	}
	for i := range entries {
		if entries[i].ID == id {
			e := entries[i]
			return &e
		}
	}
	return nil
}
