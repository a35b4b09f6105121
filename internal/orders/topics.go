package orders

const (
	TopicOrderCreated   = "order.created"
	TopicOrderConfirmed = "order.confirmed"
	TopicOrderShipped   = "order.shipped"
	TopicOrderCancelled = "order.cancelled"
	TopicOrderDelivered = "order.delivered"
	TopicStockCritical  = "stock.critical"
)

// Partition key = order_id so all events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
