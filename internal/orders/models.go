package orders

import "time"

// Order references exactly one product, one store and one creating user.
// Quantity is fixed at creation; lifecycle transitions mutate only Status
// (and, at ship time, the stock ledger).
type Order struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	CreatedBy string    `json:"created_by"`
}
