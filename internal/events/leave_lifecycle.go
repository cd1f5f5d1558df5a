package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveRequested = "leave.requested"
	LeaveApproved  = "leave.approved"
	LeaveRejected  = "leave.rejected"
	LeaveCancelled = "leave.cancelled"
)

// LeaveLifecycleEvent is published for every request state change so
// downstream consumers (notifications, reporting) can react without this
// service knowing about them.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	DaysCount  int       `json:"days_count"`
	DecidedBy  *string   `json:"decided_by,omitempty"`
	Comment    *string   `json:"comment,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
