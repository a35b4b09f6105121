// Package stock is the authoritative ledger of on-hand quantity per
// (product, store) pair. Reserve is the only way order fulfillment takes
// stock, and it never lets on-hand go negative.
package stock

type Stock struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	StoreID     string `json:"store_id"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}

// Critical reports whether on-hand has fallen to or below the replenishment
// threshold.
func (s Stock) Critical() bool { return s.Quantity <= s.MinQuantity }
