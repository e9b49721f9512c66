package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/repository"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
	"github.com/templui/studyhall/internal/validation"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &validation.Error{Field: "body", Message: "is required"}
		}
		return &validation.Error{Field: "body", Message: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	if dec.More() {
		return &validation.Error{Field: "body", Message: "must contain a single JSON object"}
	}
	return nil
}

// writeError maps service and repository errors to HTTP responses. Anything
// unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		respond.BadRequest(w, verr.Error())
	case errors.Is(err, repository.ErrSubjectNotFound),
		errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		respond.NotFound(w, err.Error())
	case errors.Is(err, service.ErrDuplicateSubject),
		errors.Is(err, repository.ErrGoalSaveConflict),
		errors.Is(err, service.ErrStreakContention):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportsDisabled):
		respond.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		attrs := []any{"error", err, "request_id", ctxkeys.RequestID(r.Context())}
		if user := ctxkeys.User(r.Context()); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		slog.Error(msg, attrs...)
		respond.InternalServerError(w)
	}
}
