package catalog

import "github.com/andresuchdata/retail-forecast/backend-go/internal/domain"

// SampleProducts is a small static catalog used by tests and local demos.
// It is never a production data source.
func SampleProducts() []domain.CatalogProduct {
	return []domain.CatalogProduct{
		{ID: "P0025", Name: "Kellogg's Corn Flakes", Category: "Breakfast & Mixes", RemainingStock: 9, SupplierID: "SPL007"},
		{ID: "P0026", Name: "MTR Dosa Mix", Category: "Breakfast & Mixes", RemainingStock: 12, SupplierID: "SPL005"},
		{ID: "P0031", Name: "Amul Butter", Category: "Dairy", RemainingStock: 0, SupplierID: "SPL002"},
		{ID: "P0032", Name: "amul taaza milk", Category: "Dairy", RemainingStock: 40, SupplierID: "SPL002"},
		{ID: "P0040", Name: "Britannia Good Day", Category: "Biscuits", RemainingStock: 7, SupplierID: "SPL011"},
	}
}
