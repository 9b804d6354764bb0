package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

// MockPermissionProvider is a testify mock over the permission engine's data
// source.
type MockPermissionProvider struct {
	mock.Mock
}

func NewMockPermissionProvider(t *testing.T) *MockPermissionProvider {
	m := &MockPermissionProvider{}
	m.Test(t)
	return m
}

func (m *MockPermissionProvider) GetUserRole(ctx context.Context, userID uuid.UUID) (permissions.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(permissions.Role), args.Error(1)
}

func (m *MockPermissionProvider) GetRestaurantManagerID(ctx context.Context, restaurantID uuid.UUID) (uuid.UUID, bool, error) {
	args := m.Called(ctx, restaurantID)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockPermissionProvider) IsRestaurantMember(ctx context.Context, userID, restaurantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, restaurantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPermissionProvider) GetUserPositionPermissions(ctx context.Context, userID, restaurantID uuid.UUID) ([]permissions.Code, error) {
	args := m.Called(ctx, userID, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]permissions.Code), args.Error(1)
}

// Helper methods for setting up common mock expectations

func (m *MockPermissionProvider) ExpectRole(userID uuid.UUID, role permissions.Role, err error) *mock.Call {
	return m.On("GetUserRole", mock.Anything, userID).Return(role, err)
}

func (m *MockPermissionProvider) ExpectManager(restaurantID, managerID uuid.UUID, hasManager bool, err error) *mock.Call {
	return m.On("GetRestaurantManagerID", mock.Anything, restaurantID).Return(managerID, hasManager, err)
}

func (m *MockPermissionProvider) ExpectMembership(userID, restaurantID uuid.UUID, isMember bool, err error) *mock.Call {
	return m.On("IsRestaurantMember", mock.Anything, userID, restaurantID).Return(isMember, err)
}

func (m *MockPermissionProvider) ExpectPositionPermissions(userID, restaurantID uuid.UUID, codes []permissions.Code, err error) *mock.Call {
	return m.On("GetUserPositionPermissions", mock.Anything, userID, restaurantID).Return(codes, err)
}
