package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthcare-portal/config"
	deliveryHttp "healthcare-portal/internal/delivery/http"
	"healthcare-portal/internal/delivery/http/handler"
	"healthcare-portal/internal/delivery/http/middleware"
	"healthcare-portal/internal/infrastructure/cache"
	"healthcare-portal/internal/infrastructure/database"
	"healthcare-portal/internal/repository"
	"healthcare-portal/internal/scheduling"
	"healthcare-portal/internal/service"
	"healthcare-portal/internal/usecase"
	"healthcare-portal/pkg/jwt"
	"healthcare-portal/pkg/metrics"
	"healthcare-portal/pkg/tracer"
	"healthcare-portal/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config         *config.Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	TracerProvider *sdktrace.TracerProvider
	Server         *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := NewLogger(cfg.App.Env)
	app.Log = log
	log.Info("Configuration loaded successfully")

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.App.Timezone, err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, loc, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := Migrate(cfg.DB, log); err != nil {
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	tp, err := tracer.Init(cfg.Tracing, cfg.App.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	app.TracerProvider = tp

	server, err := initializeServer(cfg, log, loc, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func NewLogger(env string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Migrate applies all pending schema migrations.
func Migrate(cfg config.DBConfig, log *logrus.Logger) error {
	migrator, err := database.NewMigrator(database.MigrationURL(cfg), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warnf("Failed to close migrator: %v", err)
		}
	}()
	return migrator.Up()
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, loc *time.Location, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	clinicWindow, err := usecase.NewClinicWindow(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid clinic schedule: %w", err)
	}
	clock := scheduling.LocalClock{Location: loc}

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	collector := metrics.NewCollector("healthcare_portal")

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	providerProfileRepo := repository.NewProviderProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	scheduleRepo := repository.NewProviderScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditRepo)
	tokenStore := service.NewRedisTokenStore(redisClient)
	locker := service.NewNoopSlotLocker()
	if cfg.Booking.LockEnabled {
		locker = service.NewRedisSlotLocker(redisClient, log, cfg.Booking.LockTTL, cfg.Booking.LockWait)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, providerProfileRepo, patientProfileRepo, auditService, jwtService, tokenStore)
	providerUsecase := usecase.NewProviderUsecase(db, log, providerProfileRepo)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientProfileRepo)
	scheduleUsecase := usecase.NewScheduleUsecase(db, log, providerProfileRepo, scheduleRepo, auditService, clinicWindow)
	appointmentUsecase := usecase.NewAppointmentUsecase(
		db, log,
		appointmentRepo, userRepo, providerProfileRepo, auditRepo,
		auditService, locker, collector, clock, loc, clinicWindow,
	)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(map[string]handler.Check{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})

	router := deliveryHttp.NewRouter(deliveryHttp.RouterDeps{
		AuthHandler:        handler.NewAuthHandler(authUsecase, customValidator),
		ProviderHandler:    handler.NewProviderHandler(providerUsecase, scheduleUsecase, appointmentUsecase, customValidator, clock, loc),
		PatientHandler:     handler.NewPatientHandler(patientUsecase),
		AppointmentHandler: handler.NewAppointmentHandler(appointmentUsecase, customValidator, clock, loc),
		HealthHandler:      healthHandler,
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtService, tokenStore, log),
		CORSMiddleware:     middleware.NewCORSMiddleware(cfg.App.CORSOrigin),
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimit),
		Collector:          collector,
		Log:                log,
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	if app.TracerProvider != nil {
		if err := app.TracerProvider.Shutdown(ctx); err != nil {
			app.Log.Warnf("Failed to flush traces: %v", err)
		}
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
