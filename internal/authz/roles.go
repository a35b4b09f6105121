// Package authz maps authenticated roles to the operations they may invoke.
// The policy table lives here so every lifecycle transition stays separately
// gateable; services assume the check already happened.
package authz

type Role string

const (
	RoleStoreAdministrator Role = "STORE_ADMINISTRATOR"
	RoleSeller             Role = "SELLER"
	RoleWarehouseManager   Role = "WAREHOUSE_MANAGER"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStoreAdministrator, RoleSeller, RoleWarehouseManager:
		return Role(s), true
	}
	return "", false
}

type Permission string

const (
	PermOrderCreate  Permission = "order:create"
	PermOrderRead    Permission = "order:read"
	PermOrderUpdate  Permission = "order:update"
	PermOrderDelete  Permission = "order:delete"
	PermOrderConfirm Permission = "order:confirm"
	PermOrderCancel  Permission = "order:cancel"
	PermOrderShip    Permission = "order:ship"
	PermOrderDeliver Permission = "order:deliver"

	PermProductManage   Permission = "product:manage"
	PermStockManage     Permission = "stock:manage"
	PermStoreManage     Permission = "store:manage"
	PermUserManage      Permission = "user:manage"
	PermWarehouseManage Permission = "warehouse:manage"
)

var grants = map[Permission][]Role{
	PermOrderCreate:  {RoleSeller, RoleStoreAdministrator},
	PermOrderRead:    {RoleSeller, RoleStoreAdministrator, RoleWarehouseManager},
	PermOrderUpdate:  {RoleStoreAdministrator},
	PermOrderDelete:  {RoleStoreAdministrator},
	PermOrderConfirm: {RoleStoreAdministrator},
	PermOrderCancel:  {RoleWarehouseManager, RoleStoreAdministrator},
	PermOrderShip:    {RoleWarehouseManager},
	PermOrderDeliver: {RoleSeller, RoleStoreAdministrator},

	PermProductManage:   {RoleWarehouseManager, RoleStoreAdministrator},
	PermStockManage:     {RoleWarehouseManager, RoleStoreAdministrator},
	PermStoreManage:     {RoleStoreAdministrator},
	PermUserManage:      {RoleStoreAdministrator},
	PermWarehouseManage: {RoleWarehouseManager},
}

// Allowed reports whether role may invoke the operation guarded by perm.
func Allowed(role Role, perm Permission) bool {
	for _, r := range grants[perm] {
		if r == role {
			return true
		}
	}
	return false
}
