package handler

import (
	"net/http"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	studyService   *service.StudyService
}

func NewProfileHandler(profileService *service.ProfileService, studyService *service.StudyService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		studyService:   studyService,
	}
}

type meResponse struct {
	User    *model.User       `json:"user"`
	Profile *model.Profile    `json:"profile"`
	Streak  model.StreakState `json:"streak"`
}

type updateMeRequest struct {
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	h.writeMe(w, r)
}

func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateMeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "failed to decode profile update")
		return
	}

	if req.Name != nil {
		if err := h.profileService.UpdateName(user.ID, *req.Name); err != nil {
			writeError(w, r, err, "failed to update name")
			return
		}
	}
	if req.Timezone != nil {
		if err := h.profileService.UpdateTimezone(user.ID, *req.Timezone); err != nil {
			writeError(w, r, err, "failed to update timezone")
			return
		}
	}

	h.writeMe(w, r)
}

func (h *ProfileHandler) writeMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.profileService.ByUserID(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to load profile")
		return
	}

	state, err := h.studyService.Streak(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to load streak")
		return
	}

	respond.OK(w, meResponse{User: user, Profile: profile, Streak: state})
}
