package app

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"hrflow/internal/attendance"
	"hrflow/internal/auth"
	"hrflow/internal/directory"
	"hrflow/internal/leavebalance"
	"hrflow/internal/leaverequest"
	"hrflow/internal/messaging/kafka"
	"hrflow/internal/middleware"
	"hrflow/internal/rbac"
	"hrflow/internal/shift"
	"hrflow/internal/token"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	requestRepo := leaverequest.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Auth core ---
	tokens := token.NewService(token.Config{Secret: []byte(os.Getenv("JWT_SECRET"))})
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	directoryService := directory.NewService(db, directoryRepo)
	balanceService := leavebalance.NewService(db, balanceRepo, directoryService)
	requestService := leaverequest.NewService(db, requestRepo, balanceService, directoryService, outboxRepo)
	shiftService := shift.NewService(db, shiftRepo, directoryService, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	authService := auth.NewService(db, authRepo, tokens)

	// --- Handlers ---
	directoryHandler := directory.NewHandler(directoryService)
	balanceHandler := leavebalance.NewHandler(balanceService)
	requestHandler := leaverequest.NewHandler(requestService)
	shiftHandler := shift.NewHandler(shiftService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService)

	// --- Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, tokens, enforcer)
		directory.RegisterRoutes(api, directoryHandler, tokens, enforcer)
		leavebalance.RegisterRoutes(api, balanceHandler, tokens, enforcer)
		leaverequest.RegisterRoutes(api, requestHandler, tokens, enforcer, rdb)
		shift.RegisterRoutes(api, shiftHandler, tokens, enforcer, rdb)
		attendance.RegisterRoutes(api, attendanceHandler, tokens, enforcer)
	}

	return nil
}
