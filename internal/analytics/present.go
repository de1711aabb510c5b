package analytics

import (
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const displayPlaces = 2

// Present rounds financials to two decimals for display.
func Present(f domain.Financials) domain.FinancialsView {
	return domain.FinancialsView{
		TotalRevenue:    FormatMoney(f.TotalRevenue),
		TotalCost:       FormatMoney(f.TotalCost),
		Profit:          FormatMoney(f.Profit),
		ProfitMarginPct: FormatMoney(f.ProfitMarginPct),
	}
}

// FormatMoney renders v with two fixed decimals.
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(displayPlaces)
}
