package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/sekolahku/backoffice-api/internal/repository"
	"github.com/sekolahku/backoffice-api/internal/service"
	"github.com/sekolahku/backoffice-api/pkg/config"
	"github.com/sekolahku/backoffice-api/pkg/database"
	"github.com/sekolahku/backoffice-api/pkg/logger"
)

// One-shot attendance rollup, for backfills and manual reruns. The API
// gateway runs the same service on a schedule; this binary exists so
// operators can replay a date without touching the HTTP surface.
func main() {
	var (
		dateArg string
		timeout time.Duration
	)
	flag.StringVar(&dateArg, "date", "", "Calendar date to roll up (YYYY-MM-DD, default: yesterday)")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	date := time.Now().UTC().AddDate(0, 0, -1)
	if dateArg != "" {
		date, err = time.ParseInLocation("2006-01-02", dateArg, time.UTC)
		if err != nil {
			logr.Fatal("invalid -date value", zap.String("date", dateArg), zap.Error(err))
		}
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	rollupSvc := service.NewAttendanceRollupService(
		repository.NewScheduleRepository(db),
		repository.NewStudentRepository(db),
		repository.NewAttendanceRepository(db),
		nil,
		logr,
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := rollupSvc.Run(ctx, date)
	if err != nil {
		logr.Fatal("rollup failed", zap.String("date", date.Format("2006-01-02")), zap.Error(err))
	}
	logr.Info("rollup finished",
		zap.String("date", result.Date),
		zap.Int("student_rows", result.StudentCount),
		zap.Int("staff_rows", result.StaffCount),
	)
}
