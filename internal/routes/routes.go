package routes

import (
	"net/http"

	"github.com/templui/studyhall/internal/app"
	"github.com/templui/studyhall/internal/handler"
	"github.com/templui/studyhall/internal/middleware"
	"github.com/templui/studyhall/internal/respond"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	profile := handler.NewProfileHandler(app.ProfileService, app.StudyService)
	study := handler.NewStudyHandler(app.StudyService)
	subject := handler.NewSubjectHandler(app.SubjectService)
	goal := handler.NewGoalHandler(app.GoalService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// ============================================================================
	// API ROUTES (/api/*, bearer token required)
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(profile.Me))
	mux.HandleFunc("PATCH /api/me", middleware.RequireAuth(profile.UpdateMe))

	// Sessions and streak
	mux.HandleFunc("POST /api/sessions", middleware.RequireAuth(study.RecordSession))
	mux.HandleFunc("GET /api/sessions", middleware.RequireAuth(study.Sessions))
	mux.HandleFunc("GET /api/streak", middleware.RequireAuth(study.Streak))
	mux.HandleFunc("POST /api/streak/recompute", middleware.RequireAuth(study.RecomputeStreak))

	// Stats
	mux.HandleFunc("GET /api/stats/summary", middleware.RequireAuth(study.Summary))
	mux.HandleFunc("GET /api/stats/daily", middleware.RequireAuth(study.DailyTotals))

	// Subjects
	mux.HandleFunc("GET /api/subjects", middleware.RequireAuth(subject.Subjects))
	mux.HandleFunc("POST /api/subjects", middleware.RequireAuth(subject.Create))
	mux.HandleFunc("DELETE /api/subjects/{id}", middleware.RequireAuth(subject.Delete))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.Goals))
	mux.HandleFunc("PUT /api/goals", middleware.RequireAuth(goal.Save))
	mux.HandleFunc("GET /api/goals/progress", middleware.RequireAuth(goal.Progress))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Exports
	mux.HandleFunc("POST /api/exports", middleware.RequireAuth(export.Create))
	mux.HandleFunc("GET /api/exports", middleware.RequireAuth(export.Exports))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		respond.NotFound(w, "not found")
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (read by handlers and logging)
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.BearerAuth(app.AuthService, app.UserService, app.ProfileService),
		middleware.RateLimitWrites(app.RateLimiter, app.Cfg.TrustedProxies), // after auth so writes are keyed per user
	)

	return handler
}
