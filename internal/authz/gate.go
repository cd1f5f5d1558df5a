package authz

import (
	"leavehub/internal/shared/apperror"
)

type Operation string

const (
	OpView    Operation = "view"
	OpCreate  Operation = "create"
	OpEdit    Operation = "edit"
	OpCancel  Operation = "cancel"
	OpApprove Operation = "approve"
	OpReject  Operation = "reject"
)

// Gate decides whether a principal may perform a lifecycle operation on a
// leave request owned by ownerID in ownerDepartment. It only answers the
// ownership/scope question; state rules (pending-only transitions) belong to
// the lifecycle service and bind admins too.
type Gate struct{}

func NewGate() Gate {
	return Gate{}
}

func (Gate) CanPerform(p Principal, op Operation, ownerID, ownerDepartment string) error {
	if p.UserID == "" {
		return apperror.ErrUnauthorized
	}
	if p.IsAdmin() {
		return nil
	}

	switch op {
	case OpCreate:
		// Requests are always created for the principal itself.
		if p.UserID == ownerID {
			return nil
		}
	case OpEdit:
		if p.UserID == ownerID {
			return nil
		}
	case OpCancel:
		if p.UserID == ownerID {
			return nil
		}
	case OpView:
		if p.UserID == ownerID {
			return nil
		}
		if p.CanApprove() && p.SeesDepartment(ownerDepartment) {
			return nil
		}
	case OpApprove, OpReject:
		if p.CanApprove() && p.SeesDepartment(ownerDepartment) {
			return nil
		}
	}

	return apperror.ErrForbidden
}
