package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

func writeJSON(w io.Writer, req domain.ForecastRequest, a domain.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Request    domain.ForecastRequest `json:"request"`
		Analysis   domain.Analysis        `json:"analysis"`
		Financials domain.FinancialsView  `json:"financials"`
	}{req, a, analytics.Present(a.Financials)})
}

func writeText(w io.Writer, req domain.ForecastRequest, a domain.Analysis) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	view := analytics.Present(a.Financials)

	fmt.Fprintf(tw, "Demand analysis for %s\n\n", req)
	fmt.Fprintf(tw, "Total units\t%d\n", a.TotalUnits)
	fmt.Fprintf(tw, "Revenue\t%s\n", view.TotalRevenue)
	fmt.Fprintf(tw, "Cost\t%s\n", view.TotalCost)
	fmt.Fprintf(tw, "Profit\t%s\n", view.Profit)
	fmt.Fprintf(tw, "Margin %%\t%s\n", view.ProfitMarginPct)

	fmt.Fprintln(tw, "\nCategory\tUnits")
	categories := make([]string, 0, len(a.CategoryTotals))
	for c := range a.CategoryTotals {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%d\n", c, a.CategoryTotals[c])
	}

	fmt.Fprintln(tw, "\nTop performer\tCategory\tDemand\tRevenue")
	for _, r := range a.TopPerformers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Product, r.Category, r.PredictedDemand, analytics.FormatMoney(r.Revenue()))
	}

	fmt.Fprintln(tw, "\nStock alert\tStock\tDemand\tDeficit")
	for _, s := range a.StockAlerts {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", s.Product, s.Stock, s.PredictedDemand, s.Deficit)
	}

	return tw.Flush()
}
