// Package order simulates placing a reorder with a supplier. Nothing leaves the
// process: there is no supplier call and no inventory change.
package order

import (
	"errors"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
)

// SuccessMessage is shown with every simulated order.
const SuccessMessage = "Order placed successfully!"

var (
	ErrInvalidQuantity   = errors.New("order quantity must be positive")
	ErrUnresolvedProduct = errors.New("product is not in the catalog")
)

// Phase is the visible state of the order panel
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseResultShown Phase = "result_shown"
)

// State is the order simulator state. Current is nil exactly when Phase is idle.
type State struct {
	Phase   Phase               `json:"phase"`
	Current *domain.OrderRecord `json:"current,omitempty"`
}

// Idle is the initial state.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Submit places a simulated order. On error the returned state is the input
// state. A successful submit replaces whatever record was shown before.
func Submit(st State, product *domain.CatalogEntry, quantity int, orderID string, now time.Time) (State, domain.OrderRecord, error) {
	if product == nil {
		return st, domain.OrderRecord{}, ErrUnresolvedProduct
	}
	if quantity <= 0 {
		return st, domain.OrderRecord{}, ErrInvalidQuantity
	}

	rec := domain.OrderRecord{
		OrderID:     orderID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		SupplierID:  product.SupplierID,
		Success:     true,
		Message:     SuccessMessage,
		CreatedAt:   now,
	}

	return State{Phase: PhaseResultShown, Current: &rec}, rec, nil
}

// Dismiss clears the shown record.
func Dismiss(State) State {
	return Idle()
}
