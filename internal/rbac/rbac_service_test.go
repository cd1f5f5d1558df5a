package rbac_test

import (
	"testing"

	"leavehub/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func newService(t *testing.T) rbac.Service {
	t.Helper()
	enforcer, err := rbac.NewEnforcer()
	assert.NoError(t, err)
	return rbac.NewService(enforcer)
}

func TestService_Enforce(t *testing.T) {
	svc := newService(t)

	t.Run("employee can manage own leave surface", func(t *testing.T) {
		for _, action := range []string{"read", "create", "update", "delete"} {
			allowed, err := svc.Enforce("employee", "leave", action)
			assert.NoError(t, err)
			assert.True(t, allowed, action)
		}
	})

	t.Run("employee cannot approve", func(t *testing.T) {
		allowed, err := svc.Enforce("employee", "leave", "approve")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("approver inherits employee permissions", func(t *testing.T) {
		allowed, err := svc.Enforce("approver", "leave", "create")
		assert.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = svc.Enforce("approver", "leave", "approve")
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("only admin may record adjustments", func(t *testing.T) {
		allowed, err := svc.Enforce("approver", "adjustment", "create")
		assert.NoError(t, err)
		assert.False(t, allowed)

		allowed, err = svc.Enforce("admin", "adjustment", "create")
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("admin inherits the full chain", func(t *testing.T) {
		allowed, err := svc.Enforce("admin", "leave", "create")
		assert.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = svc.Enforce("admin", "adjustment", "rollover")
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("unknown role is denied", func(t *testing.T) {
		allowed, err := svc.Enforce("contractor", "leave", "read")
		assert.NoError(t, err)
		assert.False(t, allowed)
	})
}
