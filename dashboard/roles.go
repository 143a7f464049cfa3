package dashboard

import "strings"

type Role string

const (
	RoleVendor   Role = "vendor"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// Roles lists the dashboards in display order.
var Roles = []Role{RoleVendor, RoleDelivery, RoleAdmin}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleVendor, RoleDelivery, RoleAdmin:
		return r, true
	}
	return "", false
}

// ScreenKey identifies a screen across the process, e.g. "vendor/orders".
// Live updates are addressed by this key.
func ScreenKey(role Role, name string) string {
	return string(role) + "/" + name
}
