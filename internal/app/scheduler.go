package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hrflow/internal/attendance"
	"hrflow/internal/directory"
	"hrflow/internal/leavebalance"
	"hrflow/internal/shared/connection"
	"hrflow/internal/token"
)

const (
	defaultAbsenteeSpec = "30 0 * * *"
	defaultResetSpec    = "0 0 1 * *"
)

// RunScheduler hosts the two periodic jobs: the daily absentee sweep and
// the monthly balance reset. When DIRECTORY_URL is set the employee
// directory is reached over HTTP with a long-lived service credential;
// otherwise it is read from the shared database directly.
func RunScheduler() error {
	logger := zap.L().Named("app.scheduler")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var org directory.Directory
	if baseURL := os.Getenv("DIRECTORY_URL"); baseURL != "" {
		tokens := token.NewService(token.Config{Secret: []byte(os.Getenv("JWT_SECRET"))})
		credential, err := tokens.Issue("scheduler", token.RoleManager, "scheduler@hrflow.local", token.CredentialService)
		if err != nil {
			return err
		}
		org = directory.NewClient(baseURL, credential)
	} else {
		org = directory.NewService(sqlDB, directory.NewRepository(gormDB))
	}

	attendanceRepo := attendance.NewRepository(gormDB)
	sweeper := attendance.NewSweeper(sqlDB, attendanceRepo, org)

	balanceRepo := leavebalance.NewRepository(gormDB)
	balanceService := leavebalance.NewService(sqlDB, balanceRepo, org)

	absenteeSpec := os.Getenv("ABSENTEE_CRON")
	if absenteeSpec == "" {
		absenteeSpec = defaultAbsenteeSpec
	}
	resetSpec := os.Getenv("BALANCE_RESET_CRON")
	if resetSpec == "" {
		resetSpec = defaultResetSpec
	}

	c := cron.New()

	if _, err := c.AddFunc(absenteeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := sweeper.MarkAbsentees(ctx, time.Now()); err != nil {
			logger.Error("absentee sweep run failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc(resetSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := balanceService.ResetAll(ctx); err != nil {
			logger.Error("balance reset run failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.Start()
	logger.Info("scheduler started",
		zap.String("absentee_spec", absenteeSpec),
		zap.String("reset_spec", resetSpec),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("scheduler shutting down")
	stopCtx := c.Stop()
	<-stopCtx.Done()

	return nil
}
