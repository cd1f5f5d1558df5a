package entitlement

import "time"

// FirstYearCap bounds the prorated entitlement during the first service year.
// An employee can never accrue a full allotment before completing one year.
const FirstYearCap = 11

// Calculator derives an employee's base annual entitlement from tenure.
type Calculator struct {
	annualAllotment int
}

func NewCalculator(annualAllotment int) Calculator {
	return Calculator{annualAllotment: annualAllotment}
}

// Entitlement returns the base annual leave days owed as of asOf.
//
// Zero or future hire dates yield 0. Employees inside their first service
// year earn one day per fully completed month, capped at FirstYearCap.
// From one full year of service onward the fixed annual allotment applies.
func (c Calculator) Entitlement(hireDate, asOf time.Time) int {
	if hireDate.IsZero() || hireDate.After(asOf) {
		return 0
	}

	months := completedMonths(hireDate, asOf)
	if months >= 12 {
		return c.annualAllotment
	}
	if months > FirstYearCap {
		return FirstYearCap
	}
	return months
}

// completedMonths counts full months between from and to. A month completes
// when the same day-of-month is reached or passed.
func completedMonths(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
