package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/respond"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"status": "ok"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		body["app"] = cfg.AppName
		body["env"] = cfg.AppEnv
	}

	if err := h.db.PingContext(ctx); err != nil {
		body["status"] = "unavailable"
		respond.JSON(w, http.StatusServiceUnavailable, body)
		return
	}

	respond.OK(w, body)
}
