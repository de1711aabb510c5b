package service

import (
	"strconv"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/catalog"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/order"
	"github.com/rs/zerolog/log"
)

// OrderService places simulated orders through the session form.
type OrderService struct {
	store *dashboard.Store
}

func NewOrderService(store *dashboard.Store) *OrderService {
	return &OrderService{store: store}
}

// Place fills the manual or quick reorder form and submits it as one
// transition. A rejected order leaves the session unchanged.
func (s *OrderService) Place(productID string, quantity int, quick bool) (*domain.OrderRecord, error) {
	raw := strconv.Itoa(quantity)

	var actions []dashboard.Action
	if quick {
		actions = []dashboard.Action{
			dashboard.QuickProductSelected{ProductID: productID},
			dashboard.QuickQuantityEntered{Raw: raw},
			dashboard.OrderSubmitted{Quick: true},
		}
	} else {
		category := ""
		if entry := catalog.Find(s.store.Snapshot().Catalog, productID); entry != nil {
			category = entry.Category
		}
		actions = []dashboard.Action{
			dashboard.CategorySelected{Category: category},
			dashboard.ProductSelected{ProductID: productID},
			dashboard.QuantityEntered{Raw: raw},
			dashboard.OrderSubmitted{},
		}
	}

	st, err := s.store.Apply(actions...)
	if err != nil {
		log.Debug().Err(err).Str("product_id", productID).Int("quantity", quantity).Msg("order: rejected")
		return nil, err
	}

	record := *st.Order.Current
	log.Info().
		Str("order_id", record.OrderID).
		Str("product_id", record.ProductID).
		Int("quantity", record.Quantity).
		Msg("order: simulated order placed")
	return &record, nil
}

// SetPeriod sets the year and month shown on the reorder form.
func (s *OrderService) SetPeriod(year, month int) (dashboard.ReorderForm, error) {
	if err := (domain.ForecastRequest{Year: year, Month: month}).Validate(); err != nil {
		return dashboard.ReorderForm{}, err
	}
	st, err := s.store.Dispatch(dashboard.ReorderPeriodChanged{Year: year, Month: month})
	if err != nil {
		return dashboard.ReorderForm{}, err
	}
	return st.Form, nil
}

// Current returns the order panel state.
func (s *OrderService) Current() order.State {
	return s.store.Snapshot().Order
}

// Dismiss closes the shown order.
func (s *OrderService) Dismiss() (order.State, error) {
	st, err := s.store.Dispatch(dashboard.OrderDismissed{})
	if err != nil {
		return order.State{}, err
	}
	return st.Order, nil
}
