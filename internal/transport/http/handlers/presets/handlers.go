package presetshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/entries"
	"flatrate/internal/domain/presets"
	"flatrate/internal/transport/http/api"
	"flatrate/internal/transport/http/middleware"
	"flatrate/internal/transport/http/shared"
)

type Handler struct {
	Store *presets.Store
}

func NewHandler(store *presets.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/presets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleSave)
		r.Delete("/{presetID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Store.List(r.Context(), user.UserID, shared.EmployeeNumber(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "presets_list_failed", "failed to list presets", middleware.GetRequestID(r.Context()))
		return
	}
	if list == nil {
		list = []presets.TypePreset{}
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload struct {
		Name      string  `json:"name"`
		LastHours float64 `json:"lastHours"`
		LastRate  float64 `json:"lastRate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []entries.FieldIssue{{Field: "name", Reason: "is required"}})
		return
	}
	if payload.LastHours < 0 || payload.LastRate < 0 {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []entries.FieldIssue{{Field: "lastHours", Reason: "must not be negative"}})
		return
	}

	empNumber := shared.EmployeeNumber(r)
	if err := h.Store.Learn(r.Context(), user.UserID, empNumber, payload.Name, payload.LastHours, payload.LastRate); err != nil {
		api.Fail(w, http.StatusInternalServerError, "preset_save_failed", "failed to save preset", middleware.GetRequestID(r.Context()))
		return
	}
	saved, err := h.Store.FindByName(r.Context(), user.UserID, empNumber, payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "preset_save_failed", "failed to save preset", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.Delete(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "presetID")); err != nil {
		if errors.Is(err, presets.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "preset_not_found", "preset not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "preset_delete_failed", "failed to delete preset", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
