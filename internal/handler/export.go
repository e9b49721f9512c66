package handler

import (
	"net/http"

	"github.com/templui/studyhall/internal/ctxkeys"
	"github.com/templui/studyhall/internal/model"
	"github.com/templui/studyhall/internal/respond"
	"github.com/templui/studyhall/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	export, err := h.exportService.Export(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "failed to export")
		return
	}

	respond.Created(w, export)
}

func (h *ExportHandler) Exports(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	exports, err := h.exportService.Exports(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err, "failed to list exports")
		return
	}
	if exports == nil {
		exports = []*model.Export{}
	}

	respond.OK(w, exports)
}
