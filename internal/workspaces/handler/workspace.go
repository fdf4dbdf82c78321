package handler

import (
	"net/http"

	"deskly/internal/workspaces/repository"
	"deskly/internal/workspaces/service"
	"deskly/pkg/auth"
	apperrors "deskly/pkg/errors"
	httputil "deskly/pkg/http"
	"deskly/pkg/logger"
	"deskly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type WorkspaceHandler struct {
	service service.WorkspaceService
	log     *logger.Logger
}

func NewWorkspaceHandler(service service.WorkspaceService, log *logger.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		service: service,
		log:     log,
	}
}

func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Authentication required"))
		return
	}

	var ws model.Workspace
	if err := httputil.DecodeJSON(r, &ws); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), requester, &ws); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, ws); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *WorkspaceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ws, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, ws); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WorkspaceHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	filter := repository.WorkspaceFilter{
		OwnerID: r.URL.Query().Get("owner_id"),
		City:    r.URL.Query().Get("city"),
	}

	workspaces, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, workspaces, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requester, ok := auth.RequesterFrom(r.Context())
	if !ok {
		h.writeError(w, "Update", apperrors.Unauthorized("Authentication required"))
		return
	}

	var updates model.WorkspaceUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	ws, err := h.service.Update(r.Context(), requester, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, ws); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WorkspaceHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *WorkspaceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/workspaces", h.Create)
	router.GET("/api/v1/workspaces", h.GetAll)
	router.GET("/api/v1/workspaces/id/:id", h.GetByID)
	router.PATCH("/api/v1/workspaces/id/:id", h.Update)
}
