package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a prefix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// Roles understood by the transition tables. RoleSystem is never presented
// by an external caller; it is the identity payment reconciliation acts
// under when it advances an order along its paid edge.
const (
	RoleBuyer     = "buyer"
	RoleSupplier  = "supplier"
	RoleMechanic  = "mechanic"
	RoleLogistics = "logistics"
	RoleAdmin     = "admin"
	RoleSystem    = "system"
)

// Actor is the resolved caller of a mutation. Authentication happens
// upstream; the tracker only consumes the resolved identity and role.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.Role == RoleSystem
}

// IsProvider reports whether the actor is a service provider (a logistics
// driver or a mechanic).
func (a Actor) IsProvider() bool {
	return a.Role == RoleMechanic || a.Role == RoleLogistics
}
