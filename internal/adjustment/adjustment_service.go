package adjustment

import (
	"context"
	"errors"
	"time"

	adjustmenterrors "leavehub/internal/adjustment/errors"
	"leavehub/internal/authz"
	"leavehub/internal/directory"
	"leavehub/internal/entitlement"
	"leavehub/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the read boundary to the employee directory.
type Directory interface {
	FindByID(ctx context.Context, id string) (*directory.Employee, error)
	ListActive(ctx context.Context) ([]directory.Employee, error)
}

// BalanceSource reports the days an employee still has at the end of a year.
// The year-end rollover turns that figure into next year's carryover.
type BalanceSource interface {
	UnusedDays(ctx context.Context, employeeID string, year int) (int, error)
}

//go:generate mockgen -source=adjustment_service.go -destination=mock/adjustment_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p authz.Principal, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	List(ctx context.Context, p authz.Principal, employeeID string, year int) ([]AdjustmentResponse, error)
	Rollover(ctx context.Context, p authz.Principal, year int) (RolloverResult, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	dir      Directory
	balances BalanceSource
	policy   Policy
	logger   *zap.Logger
}

// Policy holds the adjustment-side knobs. CarryoverCap bounds both manual
// carry_over rows and the rollover output.
type Policy struct {
	CarryoverCap int
}

func NewService(
	db *gorm.DB,
	repo Repository,
	dir Directory,
	balances BalanceSource,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("adjustment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("adjustment.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		dir:      dir,
		balances: balances,
		policy:   policy,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, p authz.Principal, req CreateAdjustmentRequest) (AdjustmentResponse, error) {
	if !p.IsAdmin() {
		return AdjustmentResponse{}, apperror.ErrForbidden
	}
	if !ValidTypes[req.Type] {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidAdjustmentType
	}
	if req.Amount == 0 {
		return AdjustmentResponse{}, adjustmenterrors.ErrZeroAmount
	}
	if req.Type == TypeCarryOver && req.Amount < 0 {
		return AdjustmentResponse{}, adjustmenterrors.ErrNegativeCarryover
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AdjustmentResponse{}, adjustmenterrors.ErrInvalidEmployeeID
	}
	creatorUUID, err := uuid.Parse(p.UserID)
	if err != nil {
		return AdjustmentResponse{}, apperror.ErrUnauthorized
	}

	if _, err := s.dir.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdjustmentResponse{}, adjustmenterrors.ErrEmployeeNotFound
		}
		return AdjustmentResponse{}, err
	}

	row := &LeaveAdjustment{
		ID:            uuid.New(),
		EmployeeID:    employeeUUID,
		Amount:        req.Amount,
		Type:          req.Type,
		EffectiveYear: req.EffectiveYear,
		Note:          req.Note,
		CreatedBy:     creatorUUID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if req.Type == TypeCarryOver {
			existing, err := qtx.SumByType(ctx, req.EmployeeID, req.EffectiveYear, TypeCarryOver)
			if err != nil {
				return err
			}
			if existing+req.Amount > s.policy.CarryoverCap {
				return adjustmenterrors.ErrCarryoverExceedsCap
			}
		}

		return qtx.Create(ctx, row)
	})
	if err != nil {
		return AdjustmentResponse{}, err
	}

	s.logger.Info("adjustment created",
		zap.String("adjustment_id", row.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("type", req.Type),
		zap.Int("amount", req.Amount),
	)
	return mapToResponse(*row), nil
}

func (s *service) List(ctx context.Context, p authz.Principal, employeeID string, year int) ([]AdjustmentResponse, error) {
	target := employeeID
	if target == "" {
		target = p.UserID
	}
	if target != p.UserID && !p.CanApprove() {
		return nil, apperror.ErrForbidden
	}
	if _, err := uuid.Parse(target); err != nil {
		return nil, adjustmenterrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.ListByEmployee(ctx, ListFilter{EmployeeID: target, Year: year})
	if err != nil {
		return nil, err
	}

	resp := make([]AdjustmentResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

// Rollover closes the given year: for every active employee the unused
// balance is carried into year+1 up to the cap, and the overflow is recorded
// as a forfeit row. Employees that already hold a carryover row for year+1
// are skipped, so reruns are harmless.
func (s *service) Rollover(ctx context.Context, p authz.Principal, year int) (RolloverResult, error) {
	if !p.IsAdmin() {
		return RolloverResult{}, apperror.ErrForbidden
	}
	if year >= time.Now().UTC().Year()+1 {
		return RolloverResult{}, adjustmenterrors.ErrRolloverYearInFuture
	}
	creatorUUID, err := uuid.Parse(p.UserID)
	if err != nil {
		return RolloverResult{}, apperror.ErrUnauthorized
	}

	employees, err := s.dir.ListActive(ctx)
	if err != nil {
		return RolloverResult{}, err
	}

	result := RolloverResult{Year: year}
	for _, emp := range employees {
		carried, forfeited, skipped, err := s.rollOne(ctx, emp, year, creatorUUID)
		if err != nil {
			s.logger.Error("rollover failed for employee",
				zap.String("employee_id", emp.ID.String()),
				zap.Int("year", year),
				zap.Error(err),
			)
			return result, err
		}
		if skipped {
			result.Skipped++
			continue
		}
		result.Processed++
		result.TotalCarried += carried
		result.TotalForfeited += forfeited
	}

	s.logger.Info("rollover complete",
		zap.Int("year", year),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("total_carried", result.TotalCarried),
		zap.Int("total_forfeited", result.TotalForfeited),
	)
	return result, nil
}

func (s *service) rollOne(ctx context.Context, emp directory.Employee, year int, createdBy uuid.UUID) (carried, forfeited int, skipped bool, err error) {
	employeeID := emp.ID.String()

	unused, err := s.balances.UnusedDays(ctx, employeeID, year)
	if err != nil {
		return 0, 0, false, err
	}
	if unused < 0 {
		unused = 0
	}
	res := entitlement.ApplyCarryover(unused, s.policy.CarryoverCap)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		done, err := qtx.HasCarryover(ctx, employeeID, year+1)
		if err != nil {
			return err
		}
		if done {
			skipped = true
			return nil
		}

		rows := []LeaveAdjustment{{
			ID:            uuid.New(),
			EmployeeID:    emp.ID,
			Amount:        res.CarriedOver,
			Type:          TypeCarryOver,
			EffectiveYear: year + 1,
			Note:          "year-end rollover",
			CreatedBy:     createdBy,
		}}
		if res.Forfeited > 0 {
			rows = append(rows, LeaveAdjustment{
				ID:            uuid.New(),
				EmployeeID:    emp.ID,
				Amount:        res.Forfeited,
				Type:          TypeForfeit,
				EffectiveYear: year + 1,
				Note:          "carryover overflow forfeited",
				CreatedBy:     createdBy,
			})
		}
		for i := range rows {
			if err := qtx.Create(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || skipped {
		return 0, 0, skipped, err
	}
	return res.CarriedOver, res.Forfeited, false, nil
}

func mapToResponse(a LeaveAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		Amount:        a.Amount,
		Type:          a.Type,
		EffectiveYear: a.EffectiveYear,
		Note:          a.Note,
		CreatedBy:     a.CreatedBy.String(),
		CreatedAt:     a.CreatedAt,
	}
}
