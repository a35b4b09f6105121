package redisx

import "time"

const (
	// Full order snapshot: order:{order_id} -> order JSON
	KeyOrder = "order:%s"

	// Product lookup cache: product:{product_id} -> product JSON
	KeyProduct = "product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache   = 5 * time.Minute
	TTLProductCache = 10 * time.Minute
	TTLDedup        = 48 * time.Hour
)
