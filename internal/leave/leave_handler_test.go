package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leavehub/internal/authz"
	"leavehub/internal/leave"
	leaveerrors "leavehub/internal/leave/errors"
	"leavehub/internal/middleware"
	"leavehub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	CreateFn      func(ctx context.Context, p authz.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	ListFn        func(ctx context.Context, p authz.Principal, status, employeeID string, page, pageSize int) ([]leave.LeaveResponse, int64, error)
	GetByIDFn     func(ctx context.Context, p authz.Principal, id string) (leave.LeaveResponse, error)
	UpdateFn      func(ctx context.Context, p authz.Principal, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	CancelFn      func(ctx context.Context, p authz.Principal, id string) error
	DecideFn      func(ctx context.Context, p authz.Principal, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error)
	ListPendingFn func(ctx context.Context, p authz.Principal) ([]leave.LeaveResponse, error)
	BalanceFn     func(ctx context.Context, p authz.Principal, employeeID string) (leave.BalanceResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, p authz.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.CreateFn(ctx, p, req)
}
func (f *fakeLeaveService) List(ctx context.Context, p authz.Principal, status, employeeID string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
	return f.ListFn(ctx, p, status, employeeID, page, pageSize)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, p authz.Principal, id string) (leave.LeaveResponse, error) {
	return f.GetByIDFn(ctx, p, id)
}
func (f *fakeLeaveService) Update(ctx context.Context, p authz.Principal, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.UpdateFn(ctx, p, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, p authz.Principal, id string) error {
	return f.CancelFn(ctx, p, id)
}
func (f *fakeLeaveService) Decide(ctx context.Context, p authz.Principal, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	return f.DecideFn(ctx, p, id, req)
}
func (f *fakeLeaveService) ListPending(ctx context.Context, p authz.Principal) ([]leave.LeaveResponse, error) {
	return f.ListPendingFn(ctx, p)
}
func (f *fakeLeaveService) Balance(ctx context.Context, p authz.Principal, employeeID string) (leave.BalanceResponse, error) {
	return f.BalanceFn(ctx, p, employeeID)
}

func withPrincipal(p authz.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, p)
		c.Next()
	}
}

func setupLeaveRouter(svc leave.Service, p authz.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := leave.NewHandler(svc)

	g := r.Group("/leave")
	g.Use(withPrincipal(p))
	{
		g.GET("", h.List)
		g.GET("/balance", h.Balance)
		g.GET("/:id", h.GetById)
		g.POST("", h.Create)
		g.DELETE("/:id", h.Cancel)
		g.POST("/:id/approve", h.Decide)
	}
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.ApiEnvelope {
	t.Helper()
	var env response.ApiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_Create(t *testing.T) {
	empID := uuid.New()
	p := authz.Principal{UserID: empID.String(), Role: authz.RoleEmployee}

	t.Run("created", func(t *testing.T) {
		svc := &fakeLeaveService{
			CreateFn: func(ctx context.Context, got authz.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, empID.String(), got.UserID)
				assert.Equal(t, "2099-07-01", req.StartDate)
				return leave.LeaveResponse{
					ID:        uuid.New().String(),
					Status:    leave.StatusPending,
					DaysCount: 3,
				}, nil
			},
		}
		r := setupLeaveRouter(svc, p)

		body := `{"start_date":"2099-07-01","end_date":"2099-07-03","reason":"trip"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		data := env.Data.(map[string]interface{})
		assert.Equal(t, leave.StatusPending, data["status"])
	})

	t.Run("missing dates", func(t *testing.T) {
		svc := &fakeLeaveService{
			CreateFn: func(ctx context.Context, got authz.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return leave.LeaveResponse{}, nil
			},
		}
		r := setupLeaveRouter(svc, p)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader(`{"reason":"trip"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			CreateFn: func(ctx context.Context, got authz.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap
			},
		}
		r := setupLeaveRouter(svc, p)

		body := `{"start_date":"2099-07-01","end_date":"2099-07-03"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w)
		errObj := env.Error.(map[string]interface{})
		assert.Equal(t, "CONFLICT", errObj["code"])
	})
}

func TestLeaveHandler_List(t *testing.T) {
	p := authz.Principal{UserID: uuid.New().String(), Role: authz.RoleEmployee}

	svc := &fakeLeaveService{
		ListFn: func(ctx context.Context, got authz.Principal, status, employeeID string, page, pageSize int) ([]leave.LeaveResponse, int64, error) {
			assert.Equal(t, "PENDING", status)
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, pageSize)
			return []leave.LeaveResponse{{ID: uuid.New().String()}}, 11, nil
		},
	}
	r := setupLeaveRouter(svc, p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leave?status=PENDING&page=2&page_size=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(11), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, 2, env.Meta.Page)
}

func TestLeaveHandler_GetById(t *testing.T) {
	p := authz.Principal{UserID: uuid.New().String(), Role: authz.RoleEmployee}

	t.Run("not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			GetByIDFn: func(ctx context.Context, got authz.Principal, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		r := setupLeaveRouter(svc, p)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/leave/"+uuid.New().String(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w)
		errObj := env.Error.(map[string]interface{})
		assert.Equal(t, "NOT_FOUND", errObj["code"])
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	approver := authz.Principal{UserID: uuid.New().String(), Role: authz.RoleApprover}

	t.Run("approve", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			DecideFn: func(ctx context.Context, got authz.Principal, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, leave.DecisionApprove, req.Action)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		r := setupLeaveRouter(svc, approver)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/"+leaveID+"/approve", strings.NewReader(`{"action":"approve"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		data := env.Data.(map[string]interface{})
		assert.Equal(t, leave.StatusApproved, data["status"])
	})

	t.Run("unknown action fails binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			DecideFn: func(ctx context.Context, got authz.Principal, id string, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return leave.LeaveResponse{}, nil
			},
		}
		r := setupLeaveRouter(svc, approver)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/"+uuid.New().String()+"/approve", strings.NewReader(`{"action":"defer"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Balance(t *testing.T) {
	empID := uuid.New()
	p := authz.Principal{UserID: empID.String(), Role: authz.RoleEmployee}

	svc := &fakeLeaveService{
		BalanceFn: func(ctx context.Context, got authz.Principal, employeeID string) (leave.BalanceResponse, error) {
			assert.Empty(t, employeeID)
			return leave.BalanceResponse{
				EmployeeID:           empID.String(),
				BaseAnnualLeave:      15,
				TotalAnnualLeave:     15,
				UsedDays:             4,
				PendingDays:          2,
				RemainingAnnualLeave: 9,
			}, nil
		},
	}
	r := setupLeaveRouter(svc, p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leave/balance", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(9), data["remaining_annual_leave"])
}
