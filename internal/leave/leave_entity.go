package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// ActiveStatuses are the statuses that reserve balance and block overlapping
// requests.
var ActiveStatuses = []string{StatusPending, StatusApproved}

// LeaveRequest is one employee's request for a contiguous, inclusive date
// range. A PENDING row is also the balance reservation: pending days are
// counted against the available balance until the request is decided.
//
// The uq_leave_requests_one_pending partial unique index (see
// migrations/schema.sql, applied with the externally provisioned schema)
// keeps the one-pending-request-per-employee rule enforced even if two
// creations race past the service-level lock:
//
//	CREATE UNIQUE INDEX uq_leave_requests_one_pending
//	ON leave_requests (employee_id) WHERE status = 'PENDING';
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	DaysCount int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	RejectionReason *string    `gorm:"type:text"`
	DecisionComment *string    `gorm:"type:text"`
	DecidedBy       *uuid.UUID `gorm:"type:uuid"`
	DecidedAt       *time.Time

	CreatedAt time.Time `gorm:"index:idx_leave_requests_created_at,sort:desc"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`

	Employee *employeeRef `gorm:"foreignKey:EmployeeID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsTerminal reports whether the request can no longer change.
func (l *LeaveRequest) IsTerminal() bool {
	return l.Status != StatusPending
}

// employeeRef is the minimal join projection used when listing requests for
// approvers (name and department scope).
type employeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string
	Department string
}

func (employeeRef) TableName() string {
	return "employees"
}
