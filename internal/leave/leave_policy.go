package leave

import (
	"os"
	"strconv"
)

// Policy holds the statutory knobs of the leave scheme. All values are
// overridable via environment so the advance-notice window can follow local
// regulation without a rebuild.
type Policy struct {
	AnnualAllotment    int // fixed yearly grant after the first service year
	CarryoverCap       int // max unused days rolled into the next year
	MaxConsecutiveDays int // statutory cap on one request's length
	AdvanceNoticeDays  int // min calendar days between "today" and start
}

func DefaultPolicy() Policy {
	return Policy{
		AnnualAllotment:    15,
		CarryoverCap:       15,
		MaxConsecutiveDays: 15,
		AdvanceNoticeDays:  3,
	}
}

// PolicyFromEnv reads LEAVE_* overrides on top of the defaults. Unset or
// malformed values keep the default.
func PolicyFromEnv() Policy {
	p := DefaultPolicy()
	p.AnnualAllotment = envInt("LEAVE_ANNUAL_ALLOTMENT", p.AnnualAllotment)
	p.CarryoverCap = envInt("LEAVE_CARRYOVER_CAP", p.CarryoverCap)
	p.MaxConsecutiveDays = envInt("LEAVE_MAX_CONSECUTIVE_DAYS", p.MaxConsecutiveDays)
	p.AdvanceNoticeDays = envInt("LEAVE_ADVANCE_NOTICE_DAYS", p.AdvanceNoticeDays)
	return p
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
