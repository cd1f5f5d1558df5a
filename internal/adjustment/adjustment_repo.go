package adjustment

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, a *LeaveAdjustment) error
	ListByEmployee(ctx context.Context, f ListFilter) ([]LeaveAdjustment, error)
	SumByType(ctx context.Context, employeeID string, year int, adjType string) (int, error)
	HasCarryover(ctx context.Context, employeeID string, year int) (bool, error)
	CarryoverForYear(ctx context.Context, employeeID string, year int) (int, error)
	CorrectionsForYear(ctx context.Context, employeeID string, year int) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, a *LeaveAdjustment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListByEmployee(ctx context.Context, f ListFilter) ([]LeaveAdjustment, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveAdjustment{}).
		Where("employee_id = ?", f.EmployeeID)

	if f.Year != 0 {
		q = q.Where("effective_year = ?", f.Year)
	}

	var rows []LeaveAdjustment
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) SumByType(ctx context.Context, employeeID string, year int, adjType string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&LeaveAdjustment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("employee_id = ?", employeeID).
		Where("effective_year = ?", year).
		Where("type = ?", adjType).
		Scan(&total).Error
	return total, err
}

func (r *repository) HasCarryover(ctx context.Context, employeeID string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveAdjustment{}).
		Where("employee_id = ?", employeeID).
		Where("effective_year = ?", year).
		Where("type = ?", TypeCarryOver).
		Count(&count).Error
	return count > 0, err
}

// CarryoverForYear reports the days carried into the given year. It feeds
// the balance ledger's carryover line.
func (r *repository) CarryoverForYear(ctx context.Context, employeeID string, year int) (int, error) {
	return r.SumByType(ctx, employeeID, year, TypeCarryOver)
}

// CorrectionsForYear reports the signed sum of correction entries effective
// in the given year. It feeds the balance ledger's correction line.
func (r *repository) CorrectionsForYear(ctx context.Context, employeeID string, year int) (int, error) {
	return r.SumByType(ctx, employeeID, year, TypeCorrection)
}
