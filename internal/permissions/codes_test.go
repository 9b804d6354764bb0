package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/permissions"
)

func TestAllCodes(t *testing.T) {
	codes := permissions.AllCodes()
	assert.Len(t, codes, 22)

	seen := make(map[permissions.Code]struct{}, len(codes))
	for _, c := range codes {
		_, dup := seen[c]
		assert.False(t, dup, "duplicate catalog entry %s", c)
		seen[c] = struct{}{}
	}

	// Mutating the returned slice must not touch the catalog.
	codes[0] = permissions.Code("SCRIBBLE")
	assert.Equal(t, permissions.ViewSchedule, permissions.AllCodes()[0])
}

func TestParseCode(t *testing.T) {
	for _, c := range permissions.AllCodes() {
		parsed, err := permissions.ParseCode(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := permissions.ParseCode("DROP_TABLES")
	assert.Error(t, err)
	_, err = permissions.ParseCode("")
	assert.Error(t, err)
	_, err = permissions.ParseCode("view_schedule")
	assert.Error(t, err, "codes are case-sensitive")
}

func TestParseRole(t *testing.T) {
	for _, r := range []permissions.Role{
		permissions.RoleOwner, permissions.RoleAdmin, permissions.RoleManager, permissions.RoleEmployee,
	} {
		parsed, err := permissions.ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := permissions.ParseRole("SUPERUSER")
	assert.Error(t, err)
}

func TestPolicyTables(t *testing.T) {
	t.Run("policy tables only hold catalog codes", func(t *testing.T) {
		catalog := permissions.NewCodeSet(permissions.AllCodes()...)
		for code := range permissions.ManagerAutoPermissions {
			assert.True(t, catalog.Has(code), "manager auto-grant %s not in catalog", code)
		}
		for code := range permissions.DefaultEmployeePermissions {
			assert.True(t, catalog.Has(code), "default grant %s not in catalog", code)
		}
	})

	t.Run("manager auto-grants exclude restaurant administration", func(t *testing.T) {
		assert.False(t, permissions.ManagerAutoPermissions.Has(permissions.EditRestaurants))
	})

	t.Run("defaults cover the self-service floor", func(t *testing.T) {
		assert.True(t, permissions.DefaultEmployeePermissions.Has(permissions.ViewOwnTasks))
		assert.True(t, permissions.DefaultEmployeePermissions.Has(permissions.ViewOwnTimesheets))
		assert.False(t, permissions.DefaultEmployeePermissions.Has(permissions.EditSchedule))
	})
}
