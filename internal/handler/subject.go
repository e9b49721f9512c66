package handler

import (
	"net/http"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

type createSubjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *SubjectHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	subjects, err := h.subjectService.Subjects(user.ID)
	if err != nil {
		writeError(w, r, err, "failed to list subjects")
		return
	}
	if subjects == nil {
		subjects = []*model.Subject{}
	}

	respond.OK(w, subjects)
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createSubjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, "failed to decode subject")
		return
	}

	subject, err := h.subjectService.Create(user.ID, req.Name, req.Color)
	if err != nil {
		writeError(w, r, err, "failed to create subject")
		return
	}

	respond.Created(w, subject)
}

// Delete removes a subject. Its goals go with it; its sessions become unassigned.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := h.subjectService.Delete(user.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err, "failed to delete subject")
		return
	}

	respond.NoContent(w)
}
