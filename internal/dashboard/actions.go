package dashboard

import "github.com/andresuchdata/retail-forecast/backend-go/internal/domain"

// Action is anything Update knows how to apply
type Action interface {
	action()
}

// ForecastRequested starts a new analysis and takes the next sequence number.
type ForecastRequested struct {
	Request domain.ForecastRequest
}

// ForecastResolved delivers the response for request Seq. Dropped carries the
// number of records already removed by the caller's sanitize pass.
type ForecastResolved struct {
	Seq      uint64
	Response *domain.ForecastResponse
	Dropped  int
}

// ForecastFailed reports a transport or upstream failure for request Seq.
type ForecastFailed struct {
	Seq uint64
	Err error
}

// CatalogLoaded replaces the catalog snapshot.
type CatalogLoaded struct {
	Entries []domain.CatalogEntry
}

// CatalogFailed reports that the catalog fetch failed.
type CatalogFailed struct {
	Err error
}

// ReorderPeriodChanged sets the year and month shown on the reorder form.
type ReorderPeriodChanged struct {
	Year  int
	Month int
}

// CategorySelected narrows the manual reorder list to one category.
type CategorySelected struct {
	Category string
}

// ProductSelected picks a product on the manual reorder form.
type ProductSelected struct {
	ProductID string
}

// QuantityEntered is raw operator input for the manual order quantity.
type QuantityEntered struct {
	Raw string
}

// QuickProductSelected picks a product from the full catalog.
type QuickProductSelected struct {
	ProductID string
}

// QuickQuantityEntered is raw operator input for the quick order quantity.
type QuickQuantityEntered struct {
	Raw string
}

// OrderSubmitted places the manual order, or the quick one when Quick is set.
type OrderSubmitted struct {
	Quick bool
}

// OrderDismissed closes the order confirmation.
type OrderDismissed struct{}

func (ForecastRequested) action()    {}
func (ForecastResolved) action()     {}
func (ForecastFailed) action()       {}
func (CatalogLoaded) action()        {}
func (CatalogFailed) action()        {}
func (ReorderPeriodChanged) action() {}
func (CategorySelected) action()     {}
func (ProductSelected) action()      {}
func (QuantityEntered) action()      {}
func (QuickProductSelected) action() {}
func (QuickQuantityEntered) action() {}
func (OrderSubmitted) action()       {}
func (OrderDismissed) action()       {}
