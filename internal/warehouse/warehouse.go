// Package warehouse tracks warehouses and their per-product stock. Unlike
// store stock, warehouse quantities carry no minimum threshold and are not
// touched by order fulfillment.
package warehouse

type Warehouse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	ManagerID string `json:"manager_id,omitempty"`
}

type WarehouseStock struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
}
