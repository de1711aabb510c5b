package dashboard

import (
	"fmt"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/catalog"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/order"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/reorder"
)

// Update applies one action and returns the next state. It only returns an
// error for a rejected order submission, in which case the state is unchanged.
func Update(s State, a Action, env Env) (State, error) {
	switch a := a.(type) {
	case ForecastRequested:
		s.Analysis.LatestSeq++
		s.Analysis.Request = a.Request
		s.Analysis.Pending = true
		s.Analysis.Error = ""

	case ForecastResolved:
		if a.Seq != s.Analysis.LatestSeq {
			return s, nil
		}
		clean, dropped := a.Response.Sanitize()
		result := analytics.Analyze(&clean)
		view := analytics.Present(result.Financials)
		s.Analysis.Pending = false
		s.Analysis.Error = ""
		s.Analysis.AppliedSeq = a.Seq
		s.Analysis.Dropped = a.Dropped + dropped
		s.Analysis.Result = &result
		s.Analysis.Financials = &view

	case ForecastFailed:
		if a.Seq != s.Analysis.LatestSeq {
			return s, nil
		}
		s.Analysis.Pending = false
		s.Analysis.Error = AnalysisFailedMessage

	case CatalogLoaded:
		entries := make([]domain.CatalogEntry, len(a.Entries))
		copy(entries, a.Entries)
		s.Catalog = entries
		s.Categories = catalog.Categories(entries)
		s.QuickProducts = catalog.SortedByName(entries)
		s.CatalogLoaded = true
		s.CatalogError = ""
		s.Form.Products = catalog.InCategory(entries, s.Form.Category)
		if selected := catalog.Find(s.Form.Products, s.Form.ProductID); selected != nil {
			s.Form.Suggested = reorder.Advise(selected)
		} else {
			s.Form.ProductID = ""
			s.Form.Suggested = 0
			s.Form.Quantity = 0
		}
		if catalog.Find(s.QuickProducts, s.Form.QuickProductID) == nil {
			s.Form.QuickProductID = ""
			s.Form.QuickQuantity = 0
		}

	case CatalogFailed:
		s.CatalogError = CatalogFailedMessage

	case ReorderPeriodChanged:
		s.Form.Year = a.Year
		s.Form.Month = a.Month

	case CategorySelected:
		s.Form.Category = a.Category
		s.Form.Products = catalog.InCategory(s.Catalog, a.Category)
		s.Form.ProductID = ""
		s.Form.Suggested = 0
		s.Form.Quantity = 0

	case ProductSelected:
		s.Form.ProductID = a.ProductID
		s.Form.Suggested = reorder.Advise(catalog.Find(s.Form.Products, a.ProductID))
		s.Form.Quantity = s.Form.Suggested

	case QuantityEntered:
		s.Form.Quantity = reorder.ParseQuantity(a.Raw)

	case QuickProductSelected:
		s.Form.QuickProductID = a.ProductID
		s.Form.QuickQuantity = 0

	case QuickQuantityEntered:
		s.Form.QuickQuantity = reorder.ParseQuantity(a.Raw)

	case OrderSubmitted:
		return submit(s, a.Quick, env)

	case OrderDismissed:
		s.Order = order.Dismiss(s.Order)

	default:
		return s, fmt.Errorf("dashboard: unknown action %T", a)
	}

	return s, nil
}

func submit(s State, quick bool, env Env) (State, error) {
	var (
		product *domain.CatalogEntry
		qty     int
	)
	if quick {
		product = catalog.Find(s.QuickProducts, s.Form.QuickProductID)
		qty = s.Form.QuickQuantity
	} else {
		product = catalog.Find(s.Form.Products, s.Form.ProductID)
		qty = s.Form.Quantity
	}

	// Validate before drawing an id so rejected submissions do not consume one.
	if _, _, err := order.Submit(s.Order, product, qty, "", env.Now()); err != nil {
		return s, err
	}

	next, _, err := order.Submit(s.Order, product, qty, env.NewOrderID(), env.Now())
	if err != nil {
		return s, err
	}
	s.Order = next

	if quick {
		s.Form.QuickProductID = ""
		s.Form.QuickQuantity = 0
	} else {
		s.Form.Category = ""
		s.Form.Products = make([]domain.CatalogEntry, 0)
		s.Form.ProductID = ""
		s.Form.Suggested = 0
		s.Form.Quantity = 0
	}
	return s, nil
}
