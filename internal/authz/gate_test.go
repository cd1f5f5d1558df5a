package authz_test

import (
	"testing"

	"leavehub/internal/authz"
	"leavehub/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestGate_CanPerform(t *testing.T) {
	gate := authz.NewGate()

	owner := authz.Principal{UserID: "emp-1", Role: authz.RoleEmployee}
	other := authz.Principal{UserID: "emp-2", Role: authz.RoleEmployee}
	approver := authz.Principal{
		UserID:             "mgr-1",
		Role:               authz.RoleApprover,
		VisibleDepartments: []string{"engineering"},
	}
	admin := authz.Principal{UserID: "adm-1", Role: authz.RoleAdmin}

	t.Run("owner may edit and cancel own request", func(t *testing.T) {
		assert.NoError(t, gate.CanPerform(owner, authz.OpEdit, "emp-1", "engineering"))
		assert.NoError(t, gate.CanPerform(owner, authz.OpCancel, "emp-1", "engineering"))
	})

	t.Run("non-owner employee is denied", func(t *testing.T) {
		err := gate.CanPerform(other, authz.OpEdit, "emp-1", "engineering")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		err = gate.CanPerform(other, authz.OpView, "emp-1", "engineering")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("owner cannot approve own request", func(t *testing.T) {
		err := gate.CanPerform(owner, authz.OpApprove, "emp-1", "engineering")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("approver acts inside visible scope", func(t *testing.T) {
		assert.NoError(t, gate.CanPerform(approver, authz.OpApprove, "emp-1", "engineering"))
		assert.NoError(t, gate.CanPerform(approver, authz.OpReject, "emp-1", "engineering"))
		assert.NoError(t, gate.CanPerform(approver, authz.OpView, "emp-1", "engineering"))
	})

	t.Run("approver is denied outside scope", func(t *testing.T) {
		err := gate.CanPerform(approver, authz.OpApprove, "emp-9", "finance")
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("admin bypasses scope", func(t *testing.T) {
		assert.NoError(t, gate.CanPerform(admin, authz.OpApprove, "emp-9", "finance"))
		assert.NoError(t, gate.CanPerform(admin, authz.OpCancel, "emp-9", "finance"))
		assert.NoError(t, gate.CanPerform(admin, authz.OpView, "emp-9", "finance"))
	})

	t.Run("empty principal is unauthenticated", func(t *testing.T) {
		err := gate.CanPerform(authz.Principal{}, authz.OpView, "emp-1", "engineering")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}
