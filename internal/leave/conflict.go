package leave

import (
	"time"

	"github.com/google/uuid"
)

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Overlaps reports whether two ranges share at least one calendar day.
// Boundaries are inclusive: candidate.start <= existing.end AND
// candidate.end >= existing.start.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// FindConflict returns the first request whose range overlaps the candidate.
// Only PENDING and APPROVED requests block; rejected and cancelled ones do
// not. excludeID skips the request being edited.
func FindConflict(candidate DateRange, existing []LeaveRequest, excludeID uuid.UUID) *LeaveRequest {
	for i := range existing {
		e := &existing[i]
		if e.ID == excludeID {
			continue
		}
		if e.Status != StatusPending && e.Status != StatusApproved {
			continue
		}
		if candidate.Overlaps(DateRange{Start: e.StartDate, End: e.EndDate}) {
			return e
		}
	}
	return nil
}

// HasPending reports whether the employee already holds a pending request,
// skipping excludeID during edits.
func HasPending(existing []LeaveRequest, excludeID uuid.UUID) *LeaveRequest {
	for i := range existing {
		e := &existing[i]
		if e.ID == excludeID {
			continue
		}
		if e.Status == StatusPending {
			return e
		}
	}
	return nil
}
