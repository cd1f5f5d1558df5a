package leave

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindActiveByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	List(ctx context.Context, f ListFilter) ([]LeaveRequest, int64, error)
	ListPending(ctx context.Context, departments []string, unscoped bool) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	SumDaysInYear(ctx context.Context, employeeID, status string, year int) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository to a transaction handle so reads and writes
// inside a lifecycle transition share one transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", ActiveStatuses).
		Order("start_date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]LeaveRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})

	if f.EmployeeID != "" {
		q = q.Where("leave_requests.employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		q = q.Where("leave_requests.status = ?", f.Status)
	}
	if !f.Unscoped && len(f.Departments) > 0 {
		q = q.Joins("JOIN employees ON employees.id = leave_requests.employee_id").
			Where("employees.department IN ?", f.Departments)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var requests []LeaveRequest
	err := q.Preload("Employee").
		Order("leave_requests.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) ListPending(ctx context.Context, departments []string, unscoped bool) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("leave_requests.status = ?", StatusPending)

	if !unscoped {
		q = q.Joins("JOIN employees ON employees.id = leave_requests.employee_id").
			Where("employees.department IN ?", departments)
	}

	var requests []LeaveRequest
	err := q.Preload("Employee").
		Order("leave_requests.created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) SumDaysInYear(ctx context.Context, employeeID, status string, year int) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("COALESCE(SUM(days_count), 0)").
		Where("employee_id = ?", employeeID).
		Where("status = ?", status).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Scan(&total).Error
	return total, err
}
