package reorder

import (
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

const (
	// RestockFactor is the multiple of current holdings proposed for reorder.
	RestockFactor = 1.5
	// MinimumSuggestion keeps near-empty products from getting a tiny suggestion.
	MinimumSuggestion = 10
)

// SuggestQuantity proposes max(ceil(remaining × 1.5), 10) units.
// Negative stock is treated as zero.
func SuggestQuantity(remainingStock int) int {
	if remainingStock < 0 {
		remainingStock = 0
	}
	qty := int(math.Ceil(float64(remainingStock) * RestockFactor))
	if qty < MinimumSuggestion {
		return MinimumSuggestion
	}
	return qty
}

// Advise returns the suggestion for the selected product, or 0 when nothing is selected.
func Advise(product *domain.CatalogEntry) int {
	if product == nil {
		return 0
	}
	return SuggestQuantity(product.RemainingStock)
}

// ParseQuantity coerces operator input into an order quantity. Anything that is
// not a non-negative integer becomes 0, which keeps submission disabled.
func ParseQuantity(raw string) int {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 0 {
		return 0
	}
	return qty
}
