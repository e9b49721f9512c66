package handler

import (
	"net/http"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) Goals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to list goals")
		return
	}
	if goals == nil {
		goals = []*model.Goal{}
	}

	respond.OK(w, goals)
}

// Save creates or replaces the goal for the given subject (or the overall
// goal when subject_id is null).
func (h *GoalHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.SaveGoalInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err, "failed to decode goal")
		return
	}

	goal, err := h.goalService.Save(user.ID, input)
	if err != nil {
		writeError(w, r, err, "failed to save goal")
		return
	}

	respond.OK(w, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.goalService.Delete(user.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err, "failed to delete goal")
		return
	}

	respond.NoContent(w)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	progress, err := h.goalService.Progress(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to evaluate goals")
		return
	}
	if progress == nil {
		progress = []model.GoalProgress{}
	}

	respond.OK(w, progress)
}
