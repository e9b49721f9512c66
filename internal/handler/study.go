package handler

import (
	"net/http"
	"strconv"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
	"github.com/templui/studyhall/internal/validation"
)

const defaultDailyDays = 30

type StudyHandler struct {
	studyService *service.StudyService
}

func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// RecordSession stores a session and returns it with the updated streak.
func (h *StudyHandler) RecordSession(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.RecordSessionInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err, "failed to decode session")
		return
	}

	result, err := h.studyService.RecordSession(user.ID, input)
	if err != nil {
		writeError(w, r, err, "failed to record session")
		return
	}

	respond.Created(w, result)
}

// Sessions lists sessions, optionally limited to ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *StudyHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	query := r.URL.Query()

	sessions, err := h.studyService.Sessions(user.ID, query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, r, err, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*model.StudySession{}
	}

	respond.OK(w, sessions)
}

func (h *StudyHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	state, err := h.studyService.Streak(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to load streak")
		return
	}

	respond.OK(w, state)
}

func (h *StudyHandler) RecomputeStreak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	state, err := h.studyService.RecomputeStreak(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to recompute streak")
		return
	}

	respond.OK(w, state)
}

func (h *StudyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.studyService.Summary(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to build summary")
		return
	}

	respond.OK(w, summary)
}

// DailyTotals returns one entry per day for the last ?days= days (default 30).
func (h *StudyHandler) DailyTotals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	days := defaultDailyDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, &validation.Error{Field: "days", Message: "must be a whole number"}, "invalid days parameter")
			return
		}
		days = n
	}

	totals, err := h.studyService.DailyTotals(user.ID, days)
	if err != nil {
		writeError(w, r, err, "failed to load daily totals")
		return
	}

	respond.OK(w, totals)
}
