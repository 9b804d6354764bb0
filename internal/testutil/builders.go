package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/permissions"
	"github.com/platewise/staffhub-backend/internal/store"
)

// UserBuilder provides a fluent interface for creating test users
type UserBuilder struct {
	email  string
	name   string
	role   permissions.Role
	testDB *TestDatabase
	t      *testing.T
}

// NewUser creates a new user builder
func (tdb *TestDatabase) NewUser(t *testing.T) *UserBuilder {
	return &UserBuilder{
		email:  "test@example.com",
		name:   "Test User",
		role:   permissions.RoleEmployee,
		testDB: tdb,
		t:      t,
	}
}

// WithEmail sets the user's email
func (ub *UserBuilder) WithEmail(email string) *UserBuilder {
	ub.email = email
	return ub
}

// WithName sets the user's display name
func (ub *UserBuilder) WithName(name string) *UserBuilder {
	ub.name = name
	return ub
}

// AsOwner gives the user the OWNER role
func (ub *UserBuilder) AsOwner() *UserBuilder {
	ub.role = permissions.RoleOwner
	return ub
}

// AsAdmin gives the user the ADMIN role
func (ub *UserBuilder) AsAdmin() *UserBuilder {
	ub.role = permissions.RoleAdmin
	return ub
}

// AsManager gives the user the MANAGER role
func (ub *UserBuilder) AsManager() *UserBuilder {
	ub.role = permissions.RoleManager
	return ub
}

// Create creates the user in the database
func (ub *UserBuilder) Create() store.User {
	ctx := context.Background()

	user, err := ub.testDB.Store().CreateUser(ctx, ub.email, ub.name, ub.role)
	require.NoError(ub.t, err, "Failed to create user")
	return user
}

// RestaurantBuilder provides a fluent interface for creating test restaurants
type RestaurantBuilder struct {
	name      string
	address   string
	managerID *uuid.UUID
	testDB    *TestDatabase
	t         *testing.T
}

// NewRestaurant creates a new restaurant builder
func (tdb *TestDatabase) NewRestaurant(t *testing.T) *RestaurantBuilder {
	return &RestaurantBuilder{
		name:    "Test Restaurant",
		address: "1 Test Street",
		testDB:  tdb,
		t:       t,
	}
}

// WithName sets the restaurant name
func (rb *RestaurantBuilder) WithName(name string) *RestaurantBuilder {
	rb.name = name
	return rb
}

// WithManager assigns the manager
func (rb *RestaurantBuilder) WithManager(user store.User) *RestaurantBuilder {
	rb.managerID = &user.ID
	return rb
}

// Create creates the restaurant in the database
func (rb *RestaurantBuilder) Create() store.Restaurant {
	ctx := context.Background()

	restaurant, err := rb.testDB.Store().CreateRestaurant(ctx, rb.name, rb.address, "")
	require.NoError(rb.t, err, "Failed to create restaurant")

	if rb.managerID != nil {
		restaurant, err = rb.testDB.Store().SetRestaurantManager(ctx, restaurant.ID, rb.managerID)
		require.NoError(rb.t, err, "Failed to set restaurant manager")
	}
	return restaurant
}

// PositionBuilder provides a fluent interface for creating test positions
type PositionBuilder struct {
	restaurantID uuid.UUID
	departmentID *uuid.UUID
	name         string
	grants       []permissions.Code
	testDB       *TestDatabase
	t            *testing.T
}

// NewPosition creates a new position builder for a restaurant
func (tdb *TestDatabase) NewPosition(t *testing.T, restaurant store.Restaurant) *PositionBuilder {
	return &PositionBuilder{
		restaurantID: restaurant.ID,
		name:         "Test Position",
		testDB:       tdb,
		t:            t,
	}
}

// WithName sets the position name
func (pb *PositionBuilder) WithName(name string) *PositionBuilder {
	pb.name = name
	return pb
}

// WithPermissions sets the permission codes granted by the position
func (pb *PositionBuilder) WithPermissions(codes ...permissions.Code) *PositionBuilder {
	pb.grants = append(pb.grants, codes...)
	return pb
}

// Create creates the position and its grants in the database
func (pb *PositionBuilder) Create() store.Position {
	ctx := context.Background()

	position, err := pb.testDB.Store().CreatePosition(ctx, pb.restaurantID, pb.departmentID, pb.name)
	require.NoError(pb.t, err, "Failed to create position")

	if len(pb.grants) > 0 {
		err = pb.testDB.Store().ReplacePositionPermissions(ctx, position.ID, pb.grants)
		require.NoError(pb.t, err, "Failed to grant position permissions")
	}
	return position
}

// AddEmployee activates a membership for the user at the restaurant,
// optionally assigned to a position.
func (tdb *TestDatabase) AddEmployee(t *testing.T, user store.User, restaurant store.Restaurant, position *store.Position) store.Membership {
	ctx := context.Background()

	var positionID *uuid.UUID
	if position != nil {
		positionID = &position.ID
	}

	membership, err := tdb.Store().UpsertMembership(ctx, user.ID, restaurant.ID, positionID, true)
	require.NoError(t, err, "Failed to add employee %s to restaurant %s", user.ID, restaurant.ID)
	return membership
}

// TimeNow returns a consistent time for testing
func TimeNow() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
