package authz

import "testing"

func TestAllowed(t *testing.T) {
	cases := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"seller creates orders", RoleSeller, PermOrderCreate, true},
		{"seller cannot confirm", RoleSeller, PermOrderConfirm, false},
		{"seller cannot ship", RoleSeller, PermOrderShip, false},
		{"seller delivers", RoleSeller, PermOrderDeliver, true},
		{"admin confirms", RoleStoreAdministrator, PermOrderConfirm, true},
		{"admin cannot ship", RoleStoreAdministrator, PermOrderShip, false},
		{"admin updates orders", RoleStoreAdministrator, PermOrderUpdate, true},
		{"warehouse manager ships", RoleWarehouseManager, PermOrderShip, true},
		{"warehouse manager cancels", RoleWarehouseManager, PermOrderCancel, true},
		{"warehouse manager cannot create", RoleWarehouseManager, PermOrderCreate, false},
		{"warehouse manager cannot manage users", RoleWarehouseManager, PermUserManage, false},
		{"all roles read orders", RoleWarehouseManager, PermOrderRead, true},
		{"warehouse manager manages warehouses", RoleWarehouseManager, PermWarehouseManage, true},
		{"admin cannot manage warehouses", RoleStoreAdministrator, PermWarehouseManage, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.role, tc.perm); got != tc.want {
				t.Fatalf("Allowed(%s, %s) = %v, want %v", tc.role, tc.perm, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("SELLER"); !ok || r != RoleSeller {
		t.Fatalf("ParseRole(SELLER) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("INTERN"); ok {
		t.Fatal("ParseRole accepted unknown role")
	}
	if _, ok := ParseRole(""); ok {
		t.Fatal("ParseRole accepted empty role")
	}
}
