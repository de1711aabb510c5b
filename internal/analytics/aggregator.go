// Package analytics derives the dashboard figures from a forecast response.
// Every function here is pure: inputs are never mutated and equal inputs give
// equal outputs.
package analytics

import (
	"sort"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

// DefaultTopN is the number of top performers shown when no limit is given.
const DefaultTopN = 5

// AggregateByCategory sums predicted demand per category.
func AggregateByCategory(records []domain.ForecastRecord) map[string]int {
	totals := make(map[string]int)
	for _, r := range records {
		totals[r.Category] += r.PredictedDemand
	}
	return totals
}

// ComputeFinancials values predicted demand at price and cost. The margin is
// zero when there is no revenue.
func ComputeFinancials(records []domain.ForecastRecord) domain.Financials {
	var f domain.Financials
	for _, r := range records {
		f.TotalRevenue += r.Revenue()
		f.TotalCost += r.CostContribution()
	}

	f.Profit = f.TotalRevenue - f.TotalCost
	if f.TotalRevenue > 0 {
		f.ProfitMarginPct = f.Profit / f.TotalRevenue * 100
	}
	return f
}

// TotalUnits sums predicted demand across all records.
func TotalUnits(records []domain.ForecastRecord) int {
	total := 0
	for _, r := range records {
		total += r.PredictedDemand
	}
	return total
}

// TopPerformers returns up to n records ordered by revenue, highest first.
// Records with equal revenue keep their input order. n <= 0 means DefaultTopN.
func TopPerformers(records []domain.ForecastRecord, n int) []domain.ForecastRecord {
	if n <= 0 {
		n = DefaultTopN
	}

	sorted := make([]domain.ForecastRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Revenue() > sorted[j].Revenue()
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// StockAlerts returns the records whose stock is below predicted demand,
// largest deficit first. Equal deficits keep their input order.
func StockAlerts(records []domain.ForecastRecord) []domain.StockAlert {
	alerts := make([]domain.StockAlert, 0)
	for _, r := range records {
		if r.Stock < r.PredictedDemand {
			alerts = append(alerts, domain.StockAlert{ForecastRecord: r, Deficit: r.Deficit()})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Deficit > alerts[j].Deficit
	})
	return alerts
}

// Analyze computes every dashboard figure for a response. A nil response
// yields empty, zeroed results.
func Analyze(resp *domain.ForecastResponse) domain.Analysis {
	return AnalyzeTop(resp, DefaultTopN)
}

// AnalyzeTop is Analyze with topN top performers instead of DefaultTopN.
func AnalyzeTop(resp *domain.ForecastResponse, topN int) domain.Analysis {
	clean, _ := resp.Sanitize()
	records := clean.ProductAnalysis

	return domain.Analysis{
		CategoryTotals: AggregateByCategory(records),
		Financials:     ComputeFinancials(records),
		TotalUnits:     TotalUnits(records),
		TopPerformers:  TopPerformers(records, topN),
		StockAlerts:    StockAlerts(records),
		Trend:          CompileTrend(clean.MonthlyTrends),
	}
}
