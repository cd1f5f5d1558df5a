package leave_test

import (
	"testing"
	"time"

	"leavehub/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rng(start, end time.Time) leave.DateRange {
	return leave.DateRange{Start: start, End: end}
}

func TestDateRange_Days(t *testing.T) {
	assert.Equal(t, 1, rng(day(2026, 3, 10), day(2026, 3, 10)).Days())
	assert.Equal(t, 3, rng(day(2026, 3, 10), day(2026, 3, 12)).Days())
	assert.Equal(t, 15, rng(day(2026, 3, 1), day(2026, 3, 15)).Days())
}

func TestDateRange_Overlaps(t *testing.T) {
	base := rng(day(2026, 3, 10), day(2026, 3, 14))

	t.Run("identical ranges overlap", func(t *testing.T) {
		assert.True(t, base.Overlaps(base))
	})

	t.Run("single shared boundary day overlaps", func(t *testing.T) {
		assert.True(t, base.Overlaps(rng(day(2026, 3, 14), day(2026, 3, 20))))
		assert.True(t, base.Overlaps(rng(day(2026, 3, 5), day(2026, 3, 10))))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		assert.True(t, base.Overlaps(rng(day(2026, 3, 11), day(2026, 3, 12))))
		assert.True(t, base.Overlaps(rng(day(2026, 3, 1), day(2026, 3, 31))))
	})

	t.Run("adjacent ranges do not overlap", func(t *testing.T) {
		assert.False(t, base.Overlaps(rng(day(2026, 3, 15), day(2026, 3, 18))))
		assert.False(t, base.Overlaps(rng(day(2026, 3, 5), day(2026, 3, 9))))
	})
}

func TestFindConflict(t *testing.T) {
	existing := []leave.LeaveRequest{
		{
			ID:        uuid.New(),
			Status:    leave.StatusApproved,
			StartDate: day(2026, 3, 10),
			EndDate:   day(2026, 3, 12),
		},
		{
			ID:        uuid.New(),
			Status:    leave.StatusRejected,
			StartDate: day(2026, 3, 20),
			EndDate:   day(2026, 3, 22),
		},
		{
			ID:        uuid.New(),
			Status:    leave.StatusCancelled,
			StartDate: day(2026, 3, 25),
			EndDate:   day(2026, 3, 26),
		},
	}

	t.Run("overlap with approved request conflicts", func(t *testing.T) {
		got := leave.FindConflict(rng(day(2026, 3, 12), day(2026, 3, 15)), existing, uuid.Nil)
		assert.NotNil(t, got)
		assert.Equal(t, existing[0].ID, got.ID)
	})

	t.Run("rejected and cancelled requests do not block", func(t *testing.T) {
		got := leave.FindConflict(rng(day(2026, 3, 20), day(2026, 3, 26)), existing, uuid.Nil)
		assert.Nil(t, got)
	})

	t.Run("disjoint range passes", func(t *testing.T) {
		got := leave.FindConflict(rng(day(2026, 4, 1), day(2026, 4, 3)), existing, uuid.Nil)
		assert.Nil(t, got)
	})

	t.Run("the edited request is excluded", func(t *testing.T) {
		got := leave.FindConflict(rng(day(2026, 3, 10), day(2026, 3, 12)), existing, existing[0].ID)
		assert.Nil(t, got)
	})
}

func TestHasPending(t *testing.T) {
	pending := leave.LeaveRequest{ID: uuid.New(), Status: leave.StatusPending}
	approved := leave.LeaveRequest{ID: uuid.New(), Status: leave.StatusApproved}

	t.Run("finds the pending request", func(t *testing.T) {
		got := leave.HasPending([]leave.LeaveRequest{approved, pending}, uuid.Nil)
		assert.NotNil(t, got)
		assert.Equal(t, pending.ID, got.ID)
	})

	t.Run("approved only is fine", func(t *testing.T) {
		assert.Nil(t, leave.HasPending([]leave.LeaveRequest{approved}, uuid.Nil))
	})

	t.Run("the edited request does not block itself", func(t *testing.T) {
		assert.Nil(t, leave.HasPending([]leave.LeaveRequest{pending}, pending.ID))
	})
}
