package entrieshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/entries"
	"flatrate/internal/platform/blob"
	"flatrate/internal/platform/metrics"
	"flatrate/internal/transport/http/api"
	"flatrate/internal/transport/http/middleware"
	"flatrate/internal/transport/http/shared"
)

type Handler struct {
	Service *entries.Service
	Metrics *metrics.Collector
}

func NewHandler(service *entries.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/entries", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/backfill-day-keys", h.handleBackfillDayKeys)
		r.Get("/{entryID}", h.handleGet)
		r.Put("/{entryID}", h.handleEdit)
		r.Delete("/{entryID}", h.handleDelete)
		r.Post("/{entryID}/undo", h.handleUndo)
		r.Delete("/{entryID}/purge", h.handlePurge)
		r.Post("/{entryID}/photo", h.handleAttachPhoto)
		r.Get("/{entryID}/photo-url", h.handlePhotoURL)
	})
}

func viewStateFromQuery(r *http.Request) entries.ViewState {
	q := r.URL.Query()
	mode := entries.RangeMode(q.Get("range"))
	switch mode {
	case entries.RangeDay, entries.RangeWeek, entries.RangeMonth, entries.RangeAll:
	default:
		mode = entries.RangeAll
	}
	return entries.ViewState{
		Mode:      mode,
		Search:    q.Get("search"),
		PickedDay: q.Get("day"),
		Now:       time.Now(),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	list, err := h.Service.List(r.Context(), user.UserID, shared.EmployeeNumber(r), viewStateFromQuery(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "entries_list_failed", "failed to list entries", middleware.GetRequestID(r.Context()))
		return
	}
	if list == nil {
		list = []entries.WorkEntry{}
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload entries.SavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Service.Create(r.Context(), user.UserID, shared.EmployeeNumber(r), payload)
	if err != nil {
		var verr *entries.ValidationError
		if errors.As(err, &verr) {
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), verr.Issues)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "entry_create_failed", "failed to save entry", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordEntrySave()
	}
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Service.Get(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID"))
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "entry_not_found", "entry not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "entry_get_failed", "failed to load entry", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload entries.SavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Service.Edit(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID"), payload)
	if err != nil {
		var verr *entries.ValidationError
		switch {
		case errors.As(err, &verr):
			shared.FailValidation(w, middleware.GetRequestID(r.Context()), verr.Issues)
		case errors.Is(err, entries.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "entry_not_found", "entry not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "entry_update_failed", "failed to update entry", middleware.GetRequestID(r.Context()))
		}
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordEntrySave()
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.Delete(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID")); err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "entry_not_found", "entry not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "entry_delete_failed", "failed to delete entry", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUndo(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	entry, err := h.Service.Undo(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID"))
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "entry_not_found", "entry not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, entries.ErrNotDeleted):
			api.Fail(w, http.StatusConflict, "entry_not_deleted", "entry is not deleted", middleware.GetRequestID(r.Context()))
		case errors.Is(err, entries.ErrUndoExpired):
			api.Fail(w, http.StatusConflict, "undo_expired", "undo window expired", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "entry_undo_failed", "failed to restore entry", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePurge(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Service.Purge(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID")); err != nil {
		if errors.Is(err, entries.ErrNotDeleted) {
			api.Fail(w, http.StatusConflict, "entry_not_deleted", "entry must be deleted before purge", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "entry_purge_failed", "failed to purge entry", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "purged"}, middleware.GetRequestID(r.Context()))
}

type attachPhotoRequest struct {
	PhotoDataURL string `json:"photoDataUrl"`
	OCRText      string `json:"ocrText"`
}

func (h *Handler) handleAttachPhoto(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload attachPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	contentType, data, err := blob.DecodeDataURL(payload.PhotoDataURL)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_photo", "photo must be a jpeg or png data url", middleware.GetRequestID(r.Context()))
		return
	}
	key, err := h.Service.AttachPhoto(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID"), contentType, data, payload.OCRText)
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "entry_not_found", "entry not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "photo_attach_failed", "failed to store photo", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"photoPath": key}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePhotoURL(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	url, err := h.Service.PhotoURL(r.Context(), user.UserID, shared.EmployeeNumber(r), chi.URLParam(r, "entryID"))
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "entry_not_found", "entry or photo not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "photo_url_failed", "failed to resolve photo url", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"url": url}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBackfillDayKeys(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	fixed, err := h.Service.BackfillDayKeys(r.Context(), user.UserID, shared.EmployeeNumber(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "backfill_failed", "failed to backfill day keys", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int{"fixed": fixed}, middleware.GetRequestID(r.Context()))
}
