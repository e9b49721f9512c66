package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/studyhall/internal/clock"
	"github.com/templui/studyhall/internal/config"
	"github.com/templui/studyhall/internal/db"
	"github.com/templui/studyhall/internal/markdown"
	"github.com/templui/studyhall/internal/middleware"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/service"
	"github.com/templui/studyhall/internal/storage"
)

const (
	writeLimit       = 120
	writeLimitWindow = time.Minute
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	RateLimiter    *middleware.RateLimiter
	AuthService    *service.AuthService
	UserService    *service.UserService
	ProfileService *service.ProfileService
	SubjectService *service.SubjectService
	StudyService   *service.StudyService
	GoalService    *service.GoalService
	EmailService   *service.EmailService
	DigestService  *service.DigestService
	ExportService  *service.ExportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database and run migrations
	database, err := db.Open(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Storage is optional; without a bucket exports answer 503
	var store storage.Storage
	if cfg.ExportsEnabled() {
		s3Storage, err := storage.New(ctx, cfg)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = s3Storage
	} else {
		slog.Info("exports disabled, S3_BUCKET not set")
	}

	return Build(cfg, database, store, clock.System{}), nil
}

// Build wires repositories and services around an open database.
func Build(cfg *config.Config, database *sqlx.DB, store storage.Storage, clk clock.Clock) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	subjectRepository := repository.NewSubjectRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	exportRepository := repository.NewExportRepository(database)

	// Services
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry, clk)
	userService := service.NewUserService(userRepository, profileRepository, cfg.DefaultTimezone, clk)
	profileService := service.NewProfileService(profileRepository)
	subjectService := service.NewSubjectService(subjectRepository, clk)
	studyService := service.NewStudyService(sessionRepository, profileRepository, subjectRepository, clk, cfg.SessionMaxMinutes)
	goalService := service.NewGoalService(goalRepository, subjectRepository, sessionRepository, profileRepository, clk)
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsDevelopment())
	digestService := service.NewDigestService(
		userService,
		profileRepository,
		studyService,
		goalService,
		emailService,
		markdown.NewParser(),
		cfg.AppName,
		cfg.AppURL,
	)
	exportService := service.NewExportService(
		store,
		exportRepository,
		profileRepository,
		subjectRepository,
		goalRepository,
		sessionRepository,
		clk,
	)

	return &App{
		Cfg:            cfg,
		DB:             database,
		RateLimiter:    middleware.NewRateLimiter(writeLimit, writeLimitWindow),
		AuthService:    authService,
		UserService:    userService,
		ProfileService: profileService,
		SubjectService: subjectService,
		StudyService:   studyService,
		GoalService:    goalService,
		EmailService:   emailService,
		DigestService:  digestService,
		ExportService:  exportService,
	}
}

func (a *App) Close() error {
	if a.RateLimiter != nil {
		a.RateLimiter.Stop()
	}
	return db.Close(a.DB)
}
