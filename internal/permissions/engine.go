package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/platewise/staffhub-backend/internal/logging"
)

// ErrNotFound marks a provider lookup whose subject does not exist, as
// opposed to a lookup that failed. Providers wrap it; the engine treats it as
// "no privilege" rather than as a fault.
var ErrNotFound = errors.New("not found")

// Provider is the engine's only dependency: four reads against the persisted
// authorization facts. Implementations must be side-effect free and safe for
// concurrent use. A store failure is returned as an error and is never folded
// into a boolean answer.
type Provider interface {
	// GetUserRole returns the user's global role, or ErrNotFound (wrapped)
	// when no such user exists.
	GetUserRole(ctx context.Context, userID uuid.UUID) (Role, error)

	// GetRestaurantManagerID returns the restaurant's designated manager.
	// The bool is false when the restaurant has no manager assigned.
	GetRestaurantManagerID(ctx context.Context, restaurantID uuid.UUID) (uuid.UUID, bool, error)

	// IsRestaurantMember reports whether the user holds an active membership
	// in the restaurant. Inactive memberships do not count.
	IsRestaurantMember(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error)

	// GetUserPositionPermissions returns the codes assigned to the user's
	// position in the restaurant; empty when the user has no active
	// membership or the position grants nothing.
	GetUserPositionPermissions(ctx context.Context, userID, restaurantID uuid.UUID) ([]Code, error)
}

// Decision is the outcome of a permission check. A denial is a normal value,
// not an error; errors are reserved for provider faults.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Stable decision reasons. These are part of the engine's contract: gates and
// audit logs key off them.
const (
	ReasonRoleBypass       = "role bypass"
	ReasonContextRequired  = "restaurant context required"
	ReasonManagerAutoGrant = "manager auto-grant"
	ReasonNotMember        = "not a member"
	ReasonDirectoryAccess  = "restaurant directory access"
	ReasonPositionGrant    = "granted by position"
	ReasonDefaultGrant     = "default employee permission"
	ReasonInsufficient     = "insufficient permissions"
	ReasonNoneOfRequired   = "none of the required permissions granted"
)

// Engine resolves (user, restaurant, code) triples into allow/deny decisions.
// It is stateless: every call reads fresh facts from the provider, so a single
// engine value can serve concurrent requests without synchronization.
type Engine struct {
	provider Provider
}

func NewEngine(provider Provider) *Engine {
	return &Engine{provider: provider}
}

func allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CheckPermission evaluates the layered policy for one permission code.
// restaurantID may be nil for operations with no restaurant scope. Rules are
// evaluated in a fixed order and the first rule that decides wins:
//
//  1. OWNER/ADMIN role bypass (no restaurant context needed)
//  2. no restaurant context: only VIEW_RESTAURANTS is grantable
//  3. manager auto-grant for codes in ManagerAutoPermissions (a miss falls
//     through, it does not deny: the manager may still hold the code via
//     position or default grants)
//  4. neither member nor manager: only VIEW_RESTAURANTS
//  5. position-assigned codes
//  6. default employee grants
//  7. deny
func (e *Engine) CheckPermission(ctx context.Context, userID uuid.UUID, restaurantID *uuid.UUID, code Code) (Decision, error) {
	role, err := e.provider.GetUserRole(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Decision{}, fmt.Errorf("resolving role for user %s: %w", userID, err)
	}
	if role.Bypasses() {
		return e.decided(userID, restaurantID, code, allow(ReasonRoleBypass)), nil
	}

	if restaurantID == nil {
		if code == ViewRestaurants {
			return e.decided(userID, nil, code, allow(ReasonDirectoryAccess)), nil
		}
		return e.decided(userID, nil, code, deny(ReasonContextRequired)), nil
	}
	rid := *restaurantID

	member, err := e.provider.IsRestaurantMember(ctx, userID, rid)
	if err != nil {
		return Decision{}, fmt.Errorf("resolving membership of user %s in restaurant %s: %w", userID, rid, err)
	}
	managerID, hasManager, err := e.provider.GetRestaurantManagerID(ctx, rid)
	if err != nil {
		return Decision{}, fmt.Errorf("resolving manager of restaurant %s: %w", rid, err)
	}
	isManager := hasManager && managerID == userID

	if isManager && (ManagerAutoPermissions.Has(code) || code == ViewRestaurants) {
		return e.decided(userID, restaurantID, code, allow(ReasonManagerAutoGrant)), nil
	}

	if !member && !isManager {
		if code == ViewRestaurants {
			// Seeing that a restaurant exists is universal; touching its
			// resources is not.
			return e.decided(userID, restaurantID, code, allow(ReasonDirectoryAccess)), nil
		}
		return e.decided(userID, restaurantID, code, deny(ReasonNotMember)), nil
	}

	granted, err := e.provider.GetUserPositionPermissions(ctx, userID, rid)
	if err != nil {
		return Decision{}, fmt.Errorf("resolving position permissions for user %s in restaurant %s: %w", userID, rid, err)
	}
	for _, g := range granted {
		if g == code {
			return e.decided(userID, restaurantID, code, allow(ReasonPositionGrant)), nil
		}
	}

	if DefaultEmployeePermissions.Has(code) {
		return e.decided(userID, restaurantID, code, allow(ReasonDefaultGrant)), nil
	}

	return e.decided(userID, restaurantID, code, deny(ReasonInsufficient)), nil
}

// CheckAnyPermission returns the first allowing decision for codes in the
// given order. When every code is denied the aggregate denial carries its own
// reason rather than leaking any individual one.
func (e *Engine) CheckAnyPermission(ctx context.Context, userID uuid.UUID, restaurantID *uuid.UUID, codes []Code) (Decision, error) {
	for _, code := range codes {
		d, err := e.CheckPermission(ctx, userID, restaurantID, code)
		if err != nil {
			return Decision{}, err
		}
		if d.Allowed {
			return d, nil
		}
	}
	return deny(ReasonNoneOfRequired), nil
}

// GetUserPermissions enumerates the user's effective permission set for a
// restaurant. The result is in catalog order and duplicate-free.
func (e *Engine) GetUserPermissions(ctx context.Context, userID, restaurantID uuid.UUID) ([]Code, error) {
	role, err := e.provider.GetUserRole(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("resolving role for user %s: %w", userID, err)
	}
	if role.Bypasses() {
		return AllCodes(), nil
	}

	managerID, hasManager, err := e.provider.GetRestaurantManagerID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("resolving manager of restaurant %s: %w", restaurantID, err)
	}
	if hasManager && managerID == userID {
		return inCatalogOrder(ManagerAutoPermissions, NewCodeSet(ViewRestaurants)), nil
	}

	member, err := e.provider.IsRestaurantMember(ctx, userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("resolving membership of user %s in restaurant %s: %w", userID, restaurantID, err)
	}
	if !member {
		return inCatalogOrder(DefaultEmployeePermissions), nil
	}

	granted, err := e.provider.GetUserPositionPermissions(ctx, userID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("resolving position permissions for user %s in restaurant %s: %w", userID, restaurantID, err)
	}
	return inCatalogOrder(NewCodeSet(granted...), DefaultEmployeePermissions), nil
}

// CheckRestaurantAccess is the coarse gate for restaurant-scoped resources:
// OWNER/ADMIN, the restaurant's manager, or an active member. Unlike the
// universal VIEW_RESTAURANTS grant, this is about this restaurant's data.
func (e *Engine) CheckRestaurantAccess(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error) {
	role, err := e.provider.GetUserRole(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("resolving role for user %s: %w", userID, err)
	}
	if role.Bypasses() {
		return true, nil
	}

	managerID, hasManager, err := e.provider.GetRestaurantManagerID(ctx, restaurantID)
	if err != nil {
		return false, fmt.Errorf("resolving manager of restaurant %s: %w", restaurantID, err)
	}
	if hasManager && managerID == userID {
		return true, nil
	}

	member, err := e.provider.IsRestaurantMember(ctx, userID, restaurantID)
	if err != nil {
		return false, fmt.Errorf("resolving membership of user %s in restaurant %s: %w", userID, restaurantID, err)
	}
	return member, nil
}

// IsDataOwner reports whether the target record belongs to the acting user.
// Callers layer self-access on top of permission checks with it (a user can
// always read their own profile, complete their own task, and so on).
func IsDataOwner(userID, targetUserID uuid.UUID) bool {
	return userID == targetUserID
}

// decided logs the outcome for audit purposes and returns it unchanged.
func (e *Engine) decided(userID uuid.UUID, restaurantID *uuid.UUID, code Code, d Decision) Decision {
	attrs := []any{
		"user_id", userID,
		"permission", string(code),
		"allowed", d.Allowed,
		"reason", d.Reason,
	}
	if restaurantID != nil {
		attrs = append(attrs, "restaurant_id", *restaurantID)
	}
	logging.Debug("permission decision", attrs...)
	return d
}

// inCatalogOrder unions the given sets and returns the member codes in
// catalog order.
func inCatalogOrder(sets ...CodeSet) []Code {
	out := make([]Code, 0, len(allCodes))
	for _, c := range allCodes {
		for _, s := range sets {
			if s.Has(c) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
