// Package dashboard holds the operator's session as one explicit state value
// and a pure Update function that applies user actions and resolved fetches.
package dashboard

import (
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/order"
)

// AnalysisFailedMessage is shown when the forecast service cannot be reached.
const AnalysisFailedMessage = "Failed to fetch analysis data. Please try again."

// CatalogFailedMessage is shown when the product catalog cannot be loaded.
const CatalogFailedMessage = "Failed to load products. Please try again."

// AnalysisPanel is the demand analysis side of the dashboard
type AnalysisPanel struct {
	Request    domain.ForecastRequest `json:"request"`
	LatestSeq  uint64                 `json:"latest_seq"`
	AppliedSeq uint64                 `json:"applied_seq"`
	Pending    bool                   `json:"pending"`
	Error      string                 `json:"error,omitempty"`
	Dropped    int                    `json:"dropped_records"`
	Result     *domain.Analysis       `json:"result,omitempty"`
	Financials *domain.FinancialsView `json:"financials,omitempty"`
}

// ReorderForm is the manual and quick reorder inputs with their derived values
type ReorderForm struct {
	Year      int                   `json:"year"`
	Month     int                   `json:"month"`
	Category  string                `json:"category"`
	Products  []domain.CatalogEntry `json:"products"`
	ProductID string                `json:"product_id"`
	Suggested int                   `json:"suggested_quantity"`
	Quantity  int                   `json:"quantity"`

	QuickProductID string `json:"quick_product_id"`
	QuickQuantity  int    `json:"quick_quantity"`
}

// CanSubmit reports whether the manual reorder button is enabled.
func (f ReorderForm) CanSubmit() bool {
	return f.ProductID != "" && f.Quantity > 0
}

// CanQuickSubmit reports whether the quick reorder button is enabled.
func (f ReorderForm) CanQuickSubmit() bool {
	return f.QuickProductID != "" && f.QuickQuantity > 0
}

// State is the whole session. Slices inside a State are never modified after
// the State is returned from Update, so snapshots can be shared read-only.
type State struct {
	Analysis      AnalysisPanel         `json:"analysis"`
	Catalog       []domain.CatalogEntry `json:"catalog"`
	Categories    []string              `json:"categories"`
	QuickProducts []domain.CatalogEntry `json:"quick_products"`
	CatalogLoaded bool                  `json:"catalog_loaded"`
	CatalogError  string                `json:"catalog_error,omitempty"`
	Form          ReorderForm           `json:"form"`
	Order         order.State           `json:"order"`
}

// Env supplies the non-deterministic inputs Update needs.
type Env struct {
	NewOrderID func() string
	Now        func() time.Time
}

// DefaultEnv uses a process-wide id sequence and the wall clock.
func DefaultEnv() Env {
	ids := order.NewSequenceIDs()
	return Env{
		NewOrderID: ids.NewID,
		Now:        time.Now,
	}
}

// Init returns the state the dashboard starts in before any fetch resolves.
func Init() State {
	return State{
		Analysis: AnalysisPanel{
			Request: domain.ForecastRequest{Year: 2024, Month: 1, Holidays: 0},
		},
		Catalog:       make([]domain.CatalogEntry, 0),
		Categories:    make([]string, 0),
		QuickProducts: make([]domain.CatalogEntry, 0),
		Form: ReorderForm{
			Year:     2024,
			Month:    12,
			Products: make([]domain.CatalogEntry, 0),
		},
		Order: order.Idle(),
	}
}
