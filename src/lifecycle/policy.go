package lifecycle

import (
	"fmt"
	"gsc/src/types"
	"slices"
)

// Actor is the identity a lifecycle operation runs on behalf of.
type Actor struct {
	UserID   *uint
	Role     types.Role
	ClientID *uint
}

// SystemActor runs scheduled work. It has admin rights and no user.
func SystemActor() Actor {
	return Actor{Role: types.ROLE_ADMIN}
}

func (a Actor) Owns(e Entity) bool {
	return a.ClientID != nil && *a.ClientID == e.OwnerID()
}

type edgeKey struct {
	kind types.EntityKind
	from string
	to   string
}

type targetKey struct {
	kind types.EntityKind
	to   string
}

var (
	anyone    = []types.Role{types.ROLE_CLIENT, types.ROLE_AGENT, types.ROLE_ADMIN}
	staff     = []types.Role{types.ROLE_AGENT, types.ROLE_ADMIN}
	ownerOnly = []types.Role{types.ROLE_CLIENT}
)

var edgeRoles = map[edgeKey][]types.Role{
	{types.KIND_VISA_APPLICATION, string(types.VISA_DRAFT), string(types.VISA_CANCELLED)}:                anyone,
	{types.KIND_TRAVEL_BOOKING, string(types.BOOKING_DRAFT), string(types.BOOKING_PENDING_PAYMENT)}:      anyone,
	{types.KIND_TRAVEL_BOOKING, string(types.BOOKING_PENDING_PAYMENT), string(types.BOOKING_PROCESSING)}: anyone,
	{types.KIND_PAYMENT, string(types.PAYMENT_PENDING), string(types.PAYMENT_PROCESSING)}:                anyone,
	{types.KIND_PAYMENT, string(types.PAYMENT_PROCESSING), string(types.PAYMENT_CANCELLED)}:              anyone,
	{types.KIND_CURRENCY_EXCHANGE, string(types.EXCHANGE_PROCESSING), string(types.EXCHANGE_CANCELLED)}:  anyone,
}

var targetRoles = map[targetKey][]types.Role{
	{types.KIND_VISA_APPLICATION, string(types.VISA_SUBMITTED)}:  anyone,
	{types.KIND_TRAVEL_BOOKING, string(types.BOOKING_CANCELLED)}: ownerOnly,
}

var defaultRoles = map[types.EntityKind][]types.Role{
	types.KIND_VISA_APPLICATION:  staff,
	types.KIND_TRAVEL_BOOKING:    staff,
	types.KIND_PAYMENT:           staff,
	types.KIND_CURRENCY_EXCHANGE: staff,
}

// AllowedRoles resolves the most specific rule for an edge.
func AllowedRoles(kind types.EntityKind, from string, to string) []types.Role {
	if roles, ok := edgeRoles[edgeKey{kind, from, to}]; ok {
		return roles
	}
	if roles, ok := targetRoles[targetKey{kind, to}]; ok {
		return roles
	}
	return defaultRoles[kind]
}

// Authorize checks the actor's role against the edge rule. Client actors
// must also own the entity.
func Authorize(actor Actor, e Entity, to string) error {
	roles := AllowedRoles(e.EntityKind(), e.CurrentStatus(), to)
	if !slices.Contains(roles, actor.Role) {
		return fmt.Errorf("%w: role %q cannot move %s from %q to %q", ErrPermissionDenied, actor.Role, e.EntityKind(), e.CurrentStatus(), to)
	}
	if actor.Role == types.ROLE_CLIENT && !actor.Owns(e) {
		return fmt.Errorf("%w: %s %d belongs to another client", ErrPermissionDenied, e.EntityKind(), e.EntityID())
	}
	return nil
}

// CanView reports whether the actor may read the entity.
func CanView(actor Actor, e Entity) bool {
	return actor.Role.IsStaff() || actor.Owns(e)
}
