package domain

import "time"

// OrderRecord is the confirmation of a simulated order
type OrderRecord struct {
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	SupplierID  string    `json:"supplier_id"`
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
