package adjustment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leavehub/internal/adjustment"
	"leavehub/internal/authz"
	"leavehub/internal/middleware"
	"leavehub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdjustmentService struct {
	CreateFn   func(ctx context.Context, p authz.Principal, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error)
	ListFn     func(ctx context.Context, p authz.Principal, employeeID string, year int) ([]adjustment.AdjustmentResponse, error)
	RolloverFn func(ctx context.Context, p authz.Principal, year int) (adjustment.RolloverResult, error)
}

func (f *fakeAdjustmentService) Create(ctx context.Context, p authz.Principal, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
	return f.CreateFn(ctx, p, req)
}
func (f *fakeAdjustmentService) List(ctx context.Context, p authz.Principal, employeeID string, year int) ([]adjustment.AdjustmentResponse, error) {
	return f.ListFn(ctx, p, employeeID, year)
}
func (f *fakeAdjustmentService) Rollover(ctx context.Context, p authz.Principal, year int) (adjustment.RolloverResult, error) {
	return f.RolloverFn(ctx, p, year)
}

func setupRouter(svc adjustment.Service, p authz.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := adjustment.NewHandler(svc)

	g := r.Group("/adjustments")
	g.Use(func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, p)
		c.Next()
	})
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.POST("/rollover", h.Rollover)
	}
	return r
}

func TestAdjustmentHandler_Create(t *testing.T) {
	admin := authz.Principal{UserID: uuid.New().String(), Role: authz.RoleAdmin}
	empID := uuid.New().String()

	t.Run("created", func(t *testing.T) {
		svc := &fakeAdjustmentService{
			CreateFn: func(ctx context.Context, p authz.Principal, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
				assert.Equal(t, empID, req.EmployeeID)
				assert.Equal(t, adjustment.TypeCarryOver, req.Type)
				return adjustment.AdjustmentResponse{ID: uuid.New().String(), Amount: req.Amount}, nil
			},
		}
		r := setupRouter(svc, admin)

		body := `{"employee_id":"` + empID + `","amount":5,"type":"carry_over","effective_year":2026}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/adjustments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown type fails binding", func(t *testing.T) {
		svc := &fakeAdjustmentService{
			CreateFn: func(ctx context.Context, p authz.Principal, req adjustment.CreateAdjustmentRequest) (adjustment.AdjustmentResponse, error) {
				t.Fatal("service must not be called on a binding failure")
				return adjustment.AdjustmentResponse{}, nil
			},
		}
		r := setupRouter(svc, admin)

		body := `{"employee_id":"` + empID + `","amount":5,"type":"bonus","effective_year":2026}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/adjustments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdjustmentHandler_Rollover(t *testing.T) {
	admin := authz.Principal{UserID: uuid.New().String(), Role: authz.RoleAdmin}

	svc := &fakeAdjustmentService{
		RolloverFn: func(ctx context.Context, p authz.Principal, year int) (adjustment.RolloverResult, error) {
			assert.Equal(t, 2025, year)
			return adjustment.RolloverResult{Year: 2025, Processed: 7, TotalCarried: 44, TotalForfeited: 3}, nil
		},
	}
	r := setupRouter(svc, admin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/adjustments/rollover", strings.NewReader(`{"year":2025}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var env response.ApiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, float64(7), data["processed"])
}
