package leave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leavehub/internal/directory"
	"leavehub/internal/entitlement"
	leaveerrors "leavehub/internal/leave/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	balanceCacheKeyPrefix = "leave:balance:"
	balanceCacheTTL       = time.Minute
)

func balanceCacheKey(employeeID string, year int) string {
	return fmt.Sprintf("%s%s:%d", balanceCacheKeyPrefix, employeeID, year)
}

// Directory is the read boundary to the employee directory. Only lookups the
// leave engine needs are consumed here; employee CRUD lives elsewhere.
type Directory interface {
	FindByID(ctx context.Context, id string) (*directory.Employee, error)
}

// AdjustmentSource supplies the recorded ledger adjustments for an employee
// and year: the (already cap-validated) carryover and the signed correction
// sum. Both move the balance.
type AdjustmentSource interface {
	CarryoverForYear(ctx context.Context, employeeID string, year int) (int, error)
	CorrectionsForYear(ctx context.Context, employeeID string, year int) (int, error)
}

// BalanceLedger combines base entitlement, recorded adjustments, consumed
// days and in-flight reservations into the available balance. Pending
// requests are the reservations: approval reclassifies them as used without
// a second deduction, rejection and cancellation release them.
type BalanceLedger struct {
	repo        Repository
	dir         Directory
	adjustments AdjustmentSource
	calc        entitlement.Calculator
	policy      Policy
	rdb         *redis.Client
	sf          singleflight.Group
	logger      *zap.Logger
}

// NewBalanceLedger builds the ledger. rdb may be nil; caching is then
// skipped and every read recomputes.
func NewBalanceLedger(
	repo Repository,
	dir Directory,
	adjustments AdjustmentSource,
	policy Policy,
	rdb *redis.Client,
	logger ...*zap.Logger,
) *BalanceLedger {
	l := zap.L().Named("leave.balance")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.balance")
	}
	return &BalanceLedger{
		repo:        repo,
		dir:         dir,
		adjustments: adjustments,
		calc:        entitlement.NewCalculator(policy.AnnualAllotment),
		policy:      policy,
		rdb:         rdb,
		logger:      l,
	}
}

// Snapshot returns the employee's balance as of asOf. Results are cached in
// Redis for a short window and concurrent computations for the same employee
// collapse into one via singleflight.
func (b *BalanceLedger) Snapshot(ctx context.Context, employeeID string, asOf time.Time) (BalanceResponse, error) {
	key := balanceCacheKey(employeeID, asOf.Year())

	if b.rdb != nil {
		if val, err := b.rdb.Get(ctx, key).Result(); err == nil {
			var cached BalanceResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := b.sf.Do(key, func() (interface{}, error) {
		return b.snapshotWith(ctx, b.repo, employeeID, asOf)
	})
	if err != nil {
		return BalanceResponse{}, err
	}
	snap := v.(BalanceResponse)

	if b.rdb != nil {
		if payload, err := json.Marshal(snap); err == nil {
			if err := b.rdb.Set(ctx, key, payload, balanceCacheTTL).Err(); err != nil {
				b.logger.Warn("balance cache write failed",
					zap.String("employee_id", employeeID),
					zap.Error(err),
				)
			}
		}
	}

	return snap, nil
}

// snapshotWith computes the balance through the given repository handle so
// lifecycle transitions can read a transaction-consistent balance.
func (b *BalanceLedger) snapshotWith(ctx context.Context, repo Repository, employeeID string, asOf time.Time) (BalanceResponse, error) {
	emp, err := b.dir.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
		}
		return BalanceResponse{}, err
	}

	year := asOf.Year()

	base := b.calc.Entitlement(emp.HireDate, asOf)

	carry, err := b.adjustments.CarryoverForYear(ctx, employeeID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	// Recorded amounts are validated at write time; the cap is applied again
	// here so the invariant holds even over manually seeded rows.
	carry = entitlement.ApplyCarryover(carry, b.policy.CarryoverCap).CarriedOver

	// Corrections are signed and uncapped: they repair the ledger in either
	// direction, including over-carried balances after a rollover.
	corrections, err := b.adjustments.CorrectionsForYear(ctx, employeeID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	used, err := repo.SumDaysInYear(ctx, employeeID, StatusApproved, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	pending, err := repo.SumDaysInYear(ctx, employeeID, StatusPending, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	total := base + carry + corrections
	return BalanceResponse{
		EmployeeID:           employeeID,
		BaseAnnualLeave:      base,
		CarryOverLeave:       carry,
		CorrectionDays:       corrections,
		TotalAnnualLeave:     total,
		UsedDays:             used,
		PendingDays:          pending,
		RemainingAnnualLeave: total - used - pending,
	}, nil
}

// UnusedDays returns the remaining balance at the end of the given year.
// The year-end rollover feeds this into the carryover cap.
func (b *BalanceLedger) UnusedDays(ctx context.Context, employeeID string, year int) (int, error) {
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	snap, err := b.snapshotWith(ctx, b.repo, employeeID, yearEnd)
	if err != nil {
		return 0, err
	}
	return snap.RemainingAnnualLeave, nil
}

// Invalidate drops the cached snapshot after a lifecycle mutation.
func (b *BalanceLedger) Invalidate(ctx context.Context, employeeID string) {
	if b.rdb == nil {
		return
	}
	key := balanceCacheKey(employeeID, time.Now().UTC().Year())
	if err := b.rdb.Del(ctx, key).Err(); err != nil {
		b.logger.Warn("balance cache invalidation failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
