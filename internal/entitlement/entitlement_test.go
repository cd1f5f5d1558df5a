package entitlement_test

import (
	"testing"
	"time"

	"leavehub/internal/entitlement"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculator_Entitlement(t *testing.T) {
	calc := entitlement.NewCalculator(15)
	asOf := date(2026, time.June, 15)

	t.Run("zero hire date", func(t *testing.T) {
		assert.Equal(t, 0, calc.Entitlement(time.Time{}, asOf))
	})

	t.Run("future hire date", func(t *testing.T) {
		assert.Equal(t, 0, calc.Entitlement(date(2026, time.July, 1), asOf))
	})

	t.Run("fifteen days of service", func(t *testing.T) {
		assert.Equal(t, 0, calc.Entitlement(date(2026, time.May, 31), asOf))
	})

	t.Run("exactly one completed month", func(t *testing.T) {
		assert.Equal(t, 1, calc.Entitlement(date(2026, time.May, 15), asOf))
	})

	t.Run("one day short of a month boundary", func(t *testing.T) {
		assert.Equal(t, 0, calc.Entitlement(date(2026, time.May, 16), asOf))
	})

	t.Run("six completed months", func(t *testing.T) {
		assert.Equal(t, 6, calc.Entitlement(date(2025, time.December, 15), asOf))
	})

	t.Run("eleven completed months", func(t *testing.T) {
		assert.Equal(t, 11, calc.Entitlement(date(2025, time.July, 15), asOf))
	})

	t.Run("eleven months and change stays capped", func(t *testing.T) {
		assert.Equal(t, 11, calc.Entitlement(date(2025, time.July, 1), asOf))
	})

	t.Run("full year of service gets the allotment", func(t *testing.T) {
		assert.Equal(t, 15, calc.Entitlement(date(2025, time.June, 15), asOf))
	})

	t.Run("long tenure stays at the allotment", func(t *testing.T) {
		assert.Equal(t, 15, calc.Entitlement(date(2018, time.January, 2), asOf))
	})

	t.Run("first year values stay within range", func(t *testing.T) {
		hire := date(2025, time.July, 1)
		for d := hire; d.Before(hire.AddDate(1, 0, 0)); d = d.AddDate(0, 0, 7) {
			got := calc.Entitlement(hire, d)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 11)
		}
	})
}

func TestApplyCarryover(t *testing.T) {
	t.Run("under the cap carries everything", func(t *testing.T) {
		res := entitlement.ApplyCarryover(10, 15)
		assert.Equal(t, 10, res.CarriedOver)
		assert.Equal(t, 0, res.Forfeited)
	})

	t.Run("at the cap carries everything", func(t *testing.T) {
		res := entitlement.ApplyCarryover(15, 15)
		assert.Equal(t, 15, res.CarriedOver)
		assert.Equal(t, 0, res.Forfeited)
	})

	t.Run("above the cap forfeits the excess", func(t *testing.T) {
		res := entitlement.ApplyCarryover(20, 15)
		assert.Equal(t, 15, res.CarriedOver)
		assert.Equal(t, 5, res.Forfeited)
	})

	t.Run("nothing unused carries nothing", func(t *testing.T) {
		res := entitlement.ApplyCarryover(0, 15)
		assert.Equal(t, 0, res.CarriedOver)
		assert.Equal(t, 0, res.Forfeited)
	})

	t.Run("negative input is treated as zero", func(t *testing.T) {
		res := entitlement.ApplyCarryover(-3, 15)
		assert.Equal(t, 0, res.CarriedOver)
		assert.Equal(t, 0, res.Forfeited)
	})
}
