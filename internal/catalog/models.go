package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/example/go-store-orders/internal/authz"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Barcode     string          `json:"barcode"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	AdminID  string `json:"admin_id,omitempty"`
}

type User struct {
	ID       string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     authz.Role `json:"role"`
}
