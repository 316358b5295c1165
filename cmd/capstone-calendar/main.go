package main

import (
	"capstone-calendar-backend/cmd/capstone-calendar/database"
	"capstone-calendar-backend/cmd/capstone-calendar/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const envPrefix = "CAPSTONE_CALENDAR"

type EnvCfg struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" required:"true"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTTL  time.Duration `envconfig:"JWT_ACCESS_TTL" default:"168h"`
	JWTRefreshTTL time.Duration `envconfig:"JWT_REFRESH_TTL" default:"720h"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `envconfig:"GOOGLE_REDIRECT_URI"`
	CalendarID         string `envconfig:"CALENDAR_ID" default:"primary"`
	CalendarTimezone   string `envconfig:"CALENDAR_TIMEZONE" default:"Asia/Ho_Chi_Minh"`

	RedisAddr  string        `envconfig:"REDIS_ADDR"`
	RateLimit  int           `envconfig:"RATE_LIMIT" default:"50"`
	RateWindow time.Duration `envconfig:"RATE_WINDOW" default:"15m"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"json"`
	Debug         bool   `envconfig:"DEBUG"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
}

func (c EnvCfg) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if _, err := time.LoadLocation(c.CalendarTimezone); err != nil {
		return fmt.Errorf("invalid CALENDAR_TIMEZONE %q: %w", c.CalendarTimezone, err)
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return errors.New("RATE_LIMIT and RATE_WINDOW must be positive")
	}
	return nil
}

func (c EnvCfg) Database() database.Config {
	return database.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// loadConfig reads an optional .env file, then the environment.
func loadConfig() (EnvCfg, error) {
	var cfg EnvCfg

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func main() {

	err := os.Setenv("TZ", "UTC")
	if err != nil {
		panic(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database(), log)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}

	if cfg.RunMigrations {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("database unavailable", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, log); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	}

	var rdb redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Warn("redis unavailable, rate limiting in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			client.Close()
		} else {
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			rdb = client
			defer client.Close()
		}
	}

	e, err := newServer(cfg, db, rdb, log)
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
