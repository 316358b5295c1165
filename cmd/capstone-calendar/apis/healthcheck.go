package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type HealthCheckAPI struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewHealthCheckAPI(db *gorm.DB, logger *zap.Logger) *HealthCheckAPI {
	return &HealthCheckAPI{
		db:     db,
		logger: logger,
	}
}

func (a *HealthCheckAPI) Setup(g *echo.Group) {
	g.GET("/healthz", a.healthCheck)
}

// migrationStatus reads the row golang-migrate keeps. nil when the table
// is missing or empty.
func (a *HealthCheckAPI) migrationStatus(ctx context.Context) *model.MigrationStatus {
	var status model.MigrationStatus

	result := a.db.
		WithContext(ctx).
		Raw("SELECT version, dirty FROM schema_migrations LIMIT 1").
		Scan(&status)

	if result.Error != nil {
		a.logger.Debug("migration status unavailable", zap.Error(result.Error))
		return nil
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return &status
}

func poolStats(db *sql.DB) model.PoolStats {
	stats := db.Stats()
	return model.PoolStats{
		MaxOpen:   stats.MaxOpenConnections,
		Open:      stats.OpenConnections,
		InUse:     stats.InUse,
		Idle:      stats.Idle,
		WaitCount: stats.WaitCount,
	}
}

func (a *HealthCheckAPI) healthCheck(c echo.Context) error {

	db, err := a.db.DB()
	if err != nil {
		a.logger.Error("database handle unavailable", zap.Error(err))
		return c.JSON(
			http.StatusInternalServerError,
			model.BaseResponse{
				Message: "database unavailable",
			},
		)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	status := model.HealthStatus{
		Database: "up",
		Pool:     poolStats(db),
	}

	start := time.Now()
	err = db.PingContext(ctx)
	status.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		a.logger.Warn("database ping failed", zap.Error(err))
		status.Database = "down"
		return c.JSON(
			http.StatusServiceUnavailable,
			model.BaseResponse{
				Message: "unhealthy",
				Data:    status,
			},
		)
	}

	status.Migration = a.migrationStatus(ctx)
	if status.Migration != nil && status.Migration.Dirty {
		return c.JSON(
			http.StatusServiceUnavailable,
			model.BaseResponse{
				Message: "migration dirty",
				Data:    status,
			},
		)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "healthy",
			Data:    status,
		},
	)
}
