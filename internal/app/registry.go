package app

import (
	"leavehub/internal/adjustment"
	"leavehub/internal/directory"
	"leavehub/internal/leave"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/middleware"
	"leavehub/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	policy := leave.PolicyFromEnv()

	// --- Repositories ---
	directoryRepo := directory.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	adjustmentRepo := adjustment.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	// The adjustment repository feeds recorded carryover and corrections into
	// the ledger; the ledger feeds year-end balances back into the rollover.
	// Wiring through
	// the repository keeps that loop acyclic.
	balanceLedger := leave.NewBalanceLedger(leaveRepo, directoryRepo, adjustmentRepo, policy, rdb)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, directoryRepo, balanceLedger, outboxRepo, policy)
	adjustmentService := adjustment.NewService(db, adjustmentRepo, directoryRepo, balanceLedger, adjustment.Policy{
		CarryoverCap: policy.CarryoverCap,
	})

	// --- Handlers ---
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	adjustmentHandler := adjustment.NewHandler(adjustmentService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		adjustment.RegisterRoutes(api, adjustmentHandler, rbacService)
	}

	return nil
}
