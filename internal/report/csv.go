// Package report renders a dashboard analysis as CSV and publishes it to
// object storage.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

// Header is the column layout shared by every section of the report.
var Header = []string{"section", "item", "category", "stock", "predicted_demand", "value"}

const (
	SectionSummary      = "summary"
	SectionCategory     = "category"
	SectionTopPerformer = "top_performer"
	SectionStockAlert   = "stock_alert"
	SectionTrend        = "trend"
)

// WriteCSV writes one analysis. Money values use two fixed decimals;
// categories are listed alphabetically, every other section keeps the
// analysis order.
func WriteCSV(w io.Writer, req domain.ForecastRequest, a domain.Analysis) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	view := analytics.Present(a.Financials)
	rows := [][]string{
		summaryRow("period", req.String()),
		summaryRow("total_units", strconv.Itoa(a.TotalUnits)),
		summaryRow("total_revenue", view.TotalRevenue),
		summaryRow("total_cost", view.TotalCost),
		summaryRow("profit", view.Profit),
		summaryRow("profit_margin_pct", view.ProfitMarginPct),
	}

	categories := make([]string, 0, len(a.CategoryTotals))
	for c := range a.CategoryTotals {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		rows = append(rows, []string{SectionCategory, c, "", "", "", strconv.Itoa(a.CategoryTotals[c])})
	}

	for _, r := range a.TopPerformers {
		rows = append(rows, recordRow(SectionTopPerformer, r, analytics.FormatMoney(r.Revenue())))
	}
	for _, alert := range a.StockAlerts {
		rows = append(rows, recordRow(SectionStockAlert, alert.ForecastRecord, strconv.Itoa(alert.Deficit)))
	}
	for i, label := range a.Trend.Labels {
		rows = append(rows, []string{SectionTrend, label, "", "", "", strconv.Itoa(a.Trend.Values[i])})
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	return nil
}

func summaryRow(item, value string) []string {
	return []string{SectionSummary, item, "", "", "", value}
}

func recordRow(section string, r domain.ForecastRecord, value string) []string {
	return []string{
		section,
		r.Product,
		r.Category,
		strconv.Itoa(r.Stock),
		strconv.Itoa(r.PredictedDemand),
		value,
	}
}
