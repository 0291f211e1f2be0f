package role

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/transport"
	"github.com/frahmantamala/workforce-portal/pkg/logger"
)

type ServiceAPI interface {
	List() ([]*Role, error)
	GetByID(id int64) (*Role, error)
	Create(dto CreateRoleDTO) (*Role, error)
	Update(id int64, dto UpdateRoleDTO) (*Role, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.List()
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"roles": roles})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	role, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"role": role})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	role, err := h.Service.Create(dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"role": role})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	role, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"role": role})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.roleID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "role deleted")
}

func (h *Handler) roleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, internal.NewValidationError("invalid role id", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return id, true
}
