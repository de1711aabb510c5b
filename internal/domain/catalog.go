package domain

// CatalogProduct is the catalog service wire shape
type CatalogProduct struct {
	ID             string `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Category       string `json:"category" db:"category"`
	RemainingStock int    `json:"remaining_stock" db:"remaining_stock"`
	SupplierID     string `json:"supplier_id" db:"supplier_id"`
}

// CatalogEntry is a product the operator can reorder. ID is unique within a catalog.
type CatalogEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	RemainingStock int    `json:"remaining_stock"`
	SupplierID     string `json:"supplier_id"`
}
