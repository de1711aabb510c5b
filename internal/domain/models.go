// backend-go/internal/domain/models.go
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidYear     = errors.New("year must be positive")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrInvalidHolidays = errors.New("holidays must not be negative")
)

// ForecastRecord is one product's forecast for the requested period
type ForecastRecord struct {
	Product         string   `json:"product"`
	Category        string   `json:"category"`
	Stock           int      `json:"stock"`
	PredictedDemand int      `json:"predicted_demand"`
	Price           *float64 `json:"price,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
}

// ReorderAmount is the shortfall between predicted demand and stock, floored at zero.
func (r ForecastRecord) ReorderAmount() int {
	if r.PredictedDemand > r.Stock {
		return r.PredictedDemand - r.Stock
	}
	return 0
}

// Deficit is predicted demand minus stock. It is negative when stock covers demand.
func (r ForecastRecord) Deficit() int {
	return r.PredictedDemand - r.Stock
}

// Revenue is predicted demand valued at the selling price; an absent price counts as zero.
func (r ForecastRecord) Revenue() float64 {
	return float64(r.PredictedDemand) * valueOrZero(r.Price)
}

// CostContribution is predicted demand valued at the unit cost; an absent cost counts as zero.
func (r ForecastRecord) CostContribution() float64 {
	return float64(r.PredictedDemand) * valueOrZero(r.Cost)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float64 returns a pointer to v. Handy for building records with a price or cost.
func Float64(v float64) *float64 {
	return &v
}

// MonthlyTrendPoint is one reporting period of the sales trend
type MonthlyTrendPoint struct {
	Month string `json:"month"`
	Sales int    `json:"sales"`
}

// ForecastRequest is the query sent to the forecasting service
type ForecastRequest struct {
	Year     int `json:"year"`
	Month    int `json:"month"`
	Holidays int `json:"holidays"`
}

// Validate checks the request before it is sent upstream.
func (r ForecastRequest) Validate() error {
	if r.Year <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, r.Year)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, r.Month)
	}
	if r.Holidays < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHolidays, r.Holidays)
	}
	return nil
}

// String renders the request as "January 2024 (3 holidays)".
func (r ForecastRequest) String() string {
	return fmt.Sprintf("%s %d (%d holidays)", MonthLabel(r.Month), r.Year, r.Holidays)
}

// ForecastResponse is the forecasting service payload
type ForecastResponse struct {
	ProductAnalysis []ForecastRecord    `json:"product_analysis"`
	MonthlyTrends   []MonthlyTrendPoint `json:"monthly_trends"`
}

// Sanitize returns a copy that is safe to aggregate. A nil response becomes an
// empty one, records without a product or category or with negative counts are
// dropped, and negative prices or costs are treated as absent. The second return
// value is the number of dropped records.
func (r *ForecastResponse) Sanitize() (ForecastResponse, int) {
	out := ForecastResponse{
		ProductAnalysis: make([]ForecastRecord, 0),
		MonthlyTrends:   make([]MonthlyTrendPoint, 0),
	}
	if r == nil {
		return out, 0
	}

	dropped := 0
	for _, rec := range r.ProductAnalysis {
		if rec.Product == "" || rec.Category == "" || rec.Stock < 0 || rec.PredictedDemand < 0 {
			dropped++
			continue
		}
		if rec.Price != nil && *rec.Price < 0 {
			rec.Price = nil
		}
		if rec.Cost != nil && *rec.Cost < 0 {
			rec.Cost = nil
		}
		out.ProductAnalysis = append(out.ProductAnalysis, rec)
	}

	for _, p := range r.MonthlyTrends {
		if p.Sales < 0 {
			p.Sales = 0
		}
		out.MonthlyTrends = append(out.MonthlyTrends, p)
	}

	return out, dropped
}
