package leave

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"leavehub/internal/authz"
	"leavehub/internal/events"
	leaveerrors "leavehub/internal/leave/errors"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/shared/apperror"
	"leavehub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p authz.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, p authz.Principal, status, employeeID string, page, pageSize int) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, p authz.Principal, id string) (LeaveResponse, error)
	Update(ctx context.Context, p authz.Principal, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, p authz.Principal, id string) error
	Decide(ctx context.Context, p authz.Principal, id string, req DecideLeaveRequest) (LeaveResponse, error)
	ListPending(ctx context.Context, p authz.Principal) ([]LeaveResponse, error)
	Balance(ctx context.Context, p authz.Principal, employeeID string) (BalanceResponse, error)
}

type service struct {
	db      *gorm.DB
	repo    Repository
	dir     Directory
	balance *BalanceLedger
	gate    authz.Gate
	locker  *employeeLocker
	outbox  kafka.OutboxRepository
	policy  Policy
	logger  *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	dir Directory,
	balance *BalanceLedger,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, dir, balance, nil, policy, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	dir Directory,
	balance *BalanceLedger,
	outbox kafka.OutboxRepository,
	policy Policy,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		dir:     dir,
		balance: balance,
		gate:    authz.NewGate(),
		locker:  newEmployeeLocker(),
		outbox:  outbox,
		policy:  policy,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, p authz.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", p.UserID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(p.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if err := s.gate.CanPerform(p, authz.OpCreate, p.UserID, ""); err != nil {
		return LeaveResponse{}, err
	}

	candidate, err := s.validateRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	// Reservation and uniqueness checks for one employee must not interleave.
	s.locker.Lock(p.UserID)
	defer s.locker.Unlock(p.UserID)

	var created *LeaveRequest
	err = s.runTx(ctx, func(qtx Repository, otx kafka.OutboxRepository) error {
		if _, err := s.dir.FindByID(ctx, p.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrEmployeeNotFound
			}
			return err
		}

		existing, err := qtx.FindActiveByEmployee(ctx, p.UserID)
		if err != nil {
			return err
		}
		if HasPending(existing, uuid.Nil) != nil {
			return leaveerrors.ErrPendingRequestExists
		}
		if conflict := FindConflict(candidate, existing, uuid.Nil); conflict != nil {
			s.logger.Warn("create leave overlap detected",
				zap.String("employee_id", p.UserID),
				zap.String("conflicting_id", conflict.ID.String()),
			)
			return leaveerrors.ErrLeaveOverlap
		}

		snap, err := s.balance.snapshotWith(ctx, qtx, p.UserID, today())
		if err != nil {
			return err
		}
		days := candidate.Days()
		if snap.RemainingAnnualLeave < days {
			return leaveerrors.ErrInsufficientBalance
		}

		l := &LeaveRequest{
			ID:         uuid.New(),
			EmployeeID: employeeUUID,
			StartDate:  candidate.Start,
			EndDate:    candidate.End,
			DaysCount:  days,
			Reason:     req.Reason,
			Status:     StatusPending,
		}
		if err := qtx.Create(ctx, l); err != nil {
			return mapPersistenceError(err)
		}
		created = l

		return s.emitEvent(ctx, otx, events.LeaveRequested, l)
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.balance.Invalidate(ctx, p.UserID)
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", created.ID.String()),
		zap.String("employee_id", p.UserID),
		zap.Int("days_count", created.DaysCount),
	)

	return mapToResponse(*created), nil
}

func (s *service) List(ctx context.Context, p authz.Principal, status, employeeID string, page, pageSize int) ([]LeaveResponse, int64, error) {
	if status != "" {
		status = strings.ToUpper(status)
		switch status {
		case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		default:
			return nil, 0, apperror.InvalidField("Status")
		}
	}

	f := ListFilter{
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	}

	switch {
	case p.IsAdmin():
		f.Unscoped = true
		f.EmployeeID = employeeID
	case p.CanApprove():
		f.Departments = p.VisibleDepartments
		f.EmployeeID = employeeID
	default:
		// Employees only ever see their own requests.
		if employeeID != "" && employeeID != p.UserID {
			return nil, 0, apperror.ErrForbidden
		}
		f.EmployeeID = p.UserID
		f.Unscoped = true
	}

	requests, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(requests), total, nil
}

func (s *service) GetByID(ctx context.Context, p authz.Principal, id string) (LeaveResponse, error) {
	l, err := s.findRequest(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := s.gate.CanPerform(p, authz.OpView, l.EmployeeID.String(), s.departmentOf(ctx, l)); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, p authz.Principal, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	candidate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	current, err := s.findRequest(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.gate.CanPerform(p, authz.OpEdit, current.EmployeeID.String(), s.departmentOf(ctx, current)); err != nil {
		return LeaveResponse{}, err
	}

	// Notice, length, conflict and balance checks re-run only when the dates
	// move. A reason-only edit stays valid even once the stored start date
	// has drifted inside the notice window.
	datesChanged := !candidate.Start.Equal(current.StartDate) || !candidate.End.Equal(current.EndDate)
	if datesChanged {
		if err := s.checkPolicy(candidate); err != nil {
			return LeaveResponse{}, err
		}
	}

	employeeID := current.EmployeeID.String()
	s.locker.Lock(employeeID)
	defer s.locker.Unlock(employeeID)

	var updated *LeaveRequest
	err = s.runTx(ctx, func(qtx Repository, otx kafka.OutboxRepository) error {
		l, err := s.findRequest(ctx, qtx, id)
		if err != nil {
			return err
		}
		if l.IsTerminal() {
			return leaveerrors.ErrNotPending
		}

		if datesChanged {
			existing, err := qtx.FindActiveByEmployee(ctx, employeeID)
			if err != nil {
				return err
			}
			if conflict := FindConflict(candidate, existing, l.ID); conflict != nil {
				return leaveerrors.ErrLeaveOverlap
			}

			// The old reservation is released and the new one taken in one
			// step: the delta check adds the currently reserved days back
			// first.
			snap, err := s.balance.snapshotWith(ctx, qtx, employeeID, today())
			if err != nil {
				return err
			}
			days := candidate.Days()
			if snap.RemainingAnnualLeave+l.DaysCount < days {
				return leaveerrors.ErrInsufficientBalance
			}

			l.StartDate = candidate.Start
			l.EndDate = candidate.End
			l.DaysCount = days
		}
		l.Reason = req.Reason

		if err := qtx.Update(ctx, l); err != nil {
			return mapPersistenceError(err)
		}
		updated = l
		return nil
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.balance.Invalidate(ctx, employeeID)
	s.logger.Info("update leave success",
		zap.String("leave_id", id),
		zap.Int("days_count", updated.DaysCount),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Cancel(ctx context.Context, p authz.Principal, id string) error {
	current, err := s.findRequest(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := s.gate.CanPerform(p, authz.OpCancel, current.EmployeeID.String(), s.departmentOf(ctx, current)); err != nil {
		return err
	}

	employeeID := current.EmployeeID.String()
	s.locker.Lock(employeeID)
	defer s.locker.Unlock(employeeID)

	err = s.runTx(ctx, func(qtx Repository, otx kafka.OutboxRepository) error {
		l, err := s.findRequest(ctx, qtx, id)
		if err != nil {
			return err
		}
		if l.IsTerminal() {
			return leaveerrors.ErrNotPending
		}

		// Cancelling releases the reservation: the row stops counting toward
		// pending days the moment it leaves PENDING.
		l.Status = StatusCancelled
		if err := qtx.Update(ctx, l); err != nil {
			return mapPersistenceError(err)
		}
		return s.emitEvent(ctx, otx, events.LeaveCancelled, l)
	})
	if err != nil {
		return err
	}

	s.balance.Invalidate(ctx, employeeID)
	s.logger.Info("cancel leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) Decide(ctx context.Context, p authz.Principal, id string, req DecideLeaveRequest) (LeaveResponse, error) {
	var op authz.Operation
	switch req.Action {
	case DecisionApprove:
		op = authz.OpApprove
	case DecisionReject:
		op = authz.OpReject
		if strings.TrimSpace(req.RejectionReason) == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}

	deciderUUID, err := uuid.Parse(p.UserID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUnauthorized
	}

	current, err := s.findRequest(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.gate.CanPerform(p, op, current.EmployeeID.String(), s.departmentOf(ctx, current)); err != nil {
		return LeaveResponse{}, err
	}

	employeeID := current.EmployeeID.String()
	s.locker.Lock(employeeID)
	defer s.locker.Unlock(employeeID)

	var decided *LeaveRequest
	err = s.runTx(ctx, func(qtx Repository, otx kafka.OutboxRepository) error {
		l, err := s.findRequest(ctx, qtx, id)
		if err != nil {
			return err
		}
		if l.IsTerminal() {
			return leaveerrors.ErrNotPending
		}

		now := time.Now().UTC()
		l.DecidedBy = &deciderUUID
		l.DecidedAt = &now
		if comment := strings.TrimSpace(req.Comment); comment != "" {
			l.DecisionComment = &comment
		}

		eventType := events.LeaveApproved
		if req.Action == DecisionReject {
			// Rejection releases the reservation. Approval reclassifies it
			// as consumed; the days were deducted at creation, so no second
			// deduction happens here.
			l.Status = StatusRejected
			reason := strings.TrimSpace(req.RejectionReason)
			l.RejectionReason = &reason
			eventType = events.LeaveRejected
		} else {
			l.Status = StatusApproved
			l.RejectionReason = nil
		}

		if err := qtx.Update(ctx, l); err != nil {
			return mapPersistenceError(err)
		}
		decided = l
		return s.emitEvent(ctx, otx, eventType, l)
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.balance.Invalidate(ctx, employeeID)
	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", decided.Status),
		zap.String("decided_by", p.UserID),
	)
	return mapToResponse(*decided), nil
}

func (s *service) ListPending(ctx context.Context, p authz.Principal) ([]LeaveResponse, error) {
	if !p.CanApprove() {
		return nil, apperror.ErrForbidden
	}

	requests, err := s.repo.ListPending(ctx, p.VisibleDepartments, p.IsAdmin())
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) Balance(ctx context.Context, p authz.Principal, employeeID string) (BalanceResponse, error) {
	target := employeeID
	if target == "" {
		target = p.UserID
	}

	if target != p.UserID {
		emp, err := s.dir.FindByID(ctx, target)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
			}
			return BalanceResponse{}, err
		}
		if !p.CanApprove() || !p.SeesDepartment(emp.Department) {
			return BalanceResponse{}, apperror.ErrForbidden
		}
	}

	return s.balance.Snapshot(ctx, target, today())
}

// runTx runs fn inside one transaction, binding the leave and outbox
// repositories to it. A transient concurrency failure is retried once before
// being surfaced as a service-unavailable class error.
func (s *service) runTx(ctx context.Context, fn func(qtx Repository, otx kafka.OutboxRepository) error) error {
	run := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var otx kafka.OutboxRepository
			if s.outbox != nil {
				otx = s.outbox.WithTx(tx)
			}
			return fn(s.repo.WithTx(tx), otx)
		})
	}

	err := run()
	if err != nil && isTransient(err) {
		s.logger.Warn("transient persistence conflict, retrying", zap.Error(err))
		err = run()
		if err != nil && isTransient(err) {
			return apperror.Wrap(err, apperror.CodeServiceUnavailable, apperror.ErrTransient.Message, apperror.ErrTransient.HTTPStatus)
		}
	}
	return err
}

func (s *service) findRequest(ctx context.Context, repo Repository, id string) (*LeaveRequest, error) {
	l, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

// departmentOf resolves the request owner's department for scope checks,
// preferring the preloaded join row.
func (s *service) departmentOf(ctx context.Context, l *LeaveRequest) string {
	if l.Employee != nil {
		return l.Employee.Department
	}
	emp, err := s.dir.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		return ""
	}
	return emp.Department
}

func (s *service) validateRange(startDate, endDate string) (DateRange, error) {
	r, err := parseRange(startDate, endDate)
	if err != nil {
		return DateRange{}, err
	}
	if err := s.checkPolicy(r); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func parseRange(startDate, endDate string) (DateRange, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return DateRange{}, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return DateRange{}, err
	}
	if start.After(end) {
		return DateRange{}, leaveerrors.ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

func (s *service) checkPolicy(r DateRange) error {
	if r.Days() > s.policy.MaxConsecutiveDays {
		return leaveerrors.ErrTooManyConsecutiveDays
	}
	if r.Start.Before(today().AddDate(0, 0, s.policy.AdvanceNoticeDays)) {
		return leaveerrors.ErrInsufficientNotice
	}
	return nil
}

func (s *service) emitEvent(ctx context.Context, otx kafka.OutboxRepository, eventType string, l *LeaveRequest) error {
	if otx == nil {
		return nil
	}

	ev := events.LeaveLifecycleEvent{
		EventType:  eventType,
		RequestID:  l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		DaysCount:  l.DaysCount,
		OccurredAt: time.Now().UTC(),
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		ev.DecidedBy = &v
	}
	ev.Comment = l.DecisionComment

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return otx.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		DaysCount:  l.DaysCount,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	resp.RejectionReason = l.RejectionReason
	resp.DecisionComment = l.DecisionComment
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
