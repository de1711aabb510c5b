package domain

// Financials holds full-precision money figures for a forecast
type Financials struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCost       float64 `json:"total_cost"`
	Profit          float64 `json:"profit"`
	ProfitMarginPct float64 `json:"profit_margin_pct"`
}

// FinancialsView is Financials rounded to two decimals for display
type FinancialsView struct {
	TotalRevenue    string `json:"total_revenue"`
	TotalCost       string `json:"total_cost"`
	Profit          string `json:"profit"`
	ProfitMarginPct string `json:"profit_margin_pct"`
}

// StockAlert is a record whose stock does not cover predicted demand
type StockAlert struct {
	ForecastRecord
	Deficit int `json:"deficit"`
}

// TrendSeries is the monthly trend in plotting shape. Labels and Values have equal length.
type TrendSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// Analysis aggregates every derived figure the dashboard shows for one forecast
type Analysis struct {
	CategoryTotals map[string]int   `json:"category_totals"`
	Financials     Financials       `json:"financials"`
	TotalUnits     int              `json:"total_units"`
	TopPerformers  []ForecastRecord `json:"top_performers"`
	StockAlerts    []StockAlert     `json:"stock_alerts"`
	Trend          TrendSeries      `json:"trend"`
}
