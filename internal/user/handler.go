package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/workforce-portal/internal"
	"github.com/frahmantamala/workforce-portal/internal/transport"
	"github.com/frahmantamala/workforce-portal/pkg/logger"
)

type ServiceAPI interface {
	List() ([]*User, error)
	GetByID(id string) (*User, error)
	Create(dto CreateUserDTO) (*User, error)
	Update(id string, dto UpdateUserDTO) (*User, error)
	Delete(id string) error
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
	users, err := h.Service.List()
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"user": u})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, map[string]interface{}{"user": u})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, map[string]interface{}{"user": u})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(id); err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "user deleted")
}
