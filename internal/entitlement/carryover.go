package entitlement

// CarryoverResult splits an unused year-end balance into the part that rolls
// into the next year and the part that is forfeited.
type CarryoverResult struct {
	CarriedOver int
	Forfeited   int
}

// ApplyCarryover caps unused year-end days at cap. Days above the cap are
// reported as forfeited, never silently dropped.
func ApplyCarryover(unused, cap int) CarryoverResult {
	if unused <= 0 {
		return CarryoverResult{}
	}
	if unused <= cap {
		return CarryoverResult{CarriedOver: unused}
	}
	return CarryoverResult{
		CarriedOver: cap,
		Forfeited:   unused - cap,
	}
}
