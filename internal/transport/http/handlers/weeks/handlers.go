package weekshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/calendar"
	"flatrate/internal/domain/classify"
	"flatrate/internal/domain/weeks"
	"flatrate/internal/platform/blob"
	"flatrate/internal/transport/http/api"
	"flatrate/internal/transport/http/middleware"
	"flatrate/internal/transport/http/shared"
)

type Handler struct {
	Store *weeks.Store
	Blobs blob.Store
}

func NewHandler(store *weeks.Store, blobs blob.Store) *Handler {
	return &Handler{Store: store, Blobs: blobs}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/weeks/{weekStart}", func(r chi.Router) {
		r.Get("/flag", h.handleGetFlag)
		r.Put("/flag", h.handlePutFlag)
		r.Get("/scan", h.handleGetScan)
		r.Put("/scan", h.handlePutScan)
		r.Get("/suggestions", h.handleSuggestions)
	})
}

func weekStartParam(r *http.Request) (string, bool) {
	key := chi.URLParam(r, "weekStart")
	return key, calendar.ValidDayKey(key)
}

func (h *Handler) handleGetFlag(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	weekStart, valid := weekStartParam(r)
	if !valid {
		api.Fail(w, http.StatusBadRequest, "invalid_week", "week start must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
		return
	}
	flag, err := h.Store.GetFlag(r.Context(), user.UserID, shared.EmployeeNumber(r), weekStart)
	if err != nil {
		if errors.Is(err, weeks.ErrNotFound) {
			api.Success(w, weeks.WeekFlag{WeekStartKey: weekStart}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "week_flag_failed", "failed to load week flag", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, flag, middleware.GetRequestID(r.Context()))
}

type flagRequest struct {
	FlaggedHours float64 `json:"flaggedHours"`
}

func (h *Handler) handlePutFlag(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	weekStart, valid := weekStartParam(r)
	if !valid {
		api.Fail(w, http.StatusBadRequest, "invalid_week", "week start must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
		return
	}
	var payload flagRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.FlaggedHours < 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_flag", "flagged hours must not be negative", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.UpsertFlag(r.Context(), user.UserID, shared.EmployeeNumber(r), weekStart, payload.FlaggedHours); err != nil {
		api.Fail(w, http.StatusInternalServerError, "week_flag_failed", "failed to save week flag", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, weeks.WeekFlag{WeekStartKey: weekStart, FlaggedHours: payload.FlaggedHours}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetScan(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	weekStart, valid := weekStartParam(r)
	if !valid {
		api.Fail(w, http.StatusBadRequest, "invalid_week", "week start must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
		return
	}
	scan, err := h.Store.GetScan(r.Context(), user.UserID, shared.EmployeeNumber(r), weekStart)
	if err != nil {
		if errors.Is(err, weeks.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "scan_not_found", "no payroll scan for this week", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "week_scan_failed", "failed to load payroll scan", middleware.GetRequestID(r.Context()))
		return
	}

	out := map[string]any{
		"weekStartKey": scan.WeekStartKey,
		"photoPath":    scan.PhotoPath,
		"ocrText":      scan.OCRText,
		"updatedAt":    scan.UpdatedAt,
	}
	if scan.PhotoPath != "" {
		if url, err := h.Blobs.URL(r.Context(), scan.PhotoPath); err == nil {
			out["photoUrl"] = url
		}
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type scanRequest struct {
	PhotoDataURL string `json:"photoDataUrl"`
	OCRText      string `json:"ocrText"`
}

func (h *Handler) handlePutScan(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	weekStart, valid := weekStartParam(r)
	if !valid {
		api.Fail(w, http.StatusBadRequest, "invalid_week", "week start must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
		return
	}
	var payload scanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	empID := shared.EmployeeNumber(r)
	scan := weeks.PayrollScan{WeekStartKey: weekStart, OCRText: payload.OCRText}

	if payload.PhotoDataURL != "" {
		contentType, data, err := blob.DecodeDataURL(payload.PhotoDataURL)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_photo", "photo must be a jpeg or png data url", middleware.GetRequestID(r.Context()))
			return
		}
		key := scanKey(user.UserID, empID, weekStart, contentType)
		if err := h.Blobs.Put(r.Context(), key, contentType, data); err != nil {
			api.Fail(w, http.StatusInternalServerError, "scan_store_failed", "failed to store payroll photo", middleware.GetRequestID(r.Context()))
			return
		}
		scan.PhotoPath = key
	}

	if err := h.Store.UpsertScan(r.Context(), user.UserID, empID, scan); err != nil {
		api.Fail(w, http.StatusInternalServerError, "week_scan_failed", "failed to save payroll scan", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, scan, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	weekStart, valid := weekStartParam(r)
	if !valid {
		api.Fail(w, http.StatusBadRequest, "invalid_week", "week start must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
		return
	}
	scan, err := h.Store.GetScan(r.Context(), user.UserID, shared.EmployeeNumber(r), weekStart)
	if err != nil {
		if errors.Is(err, weeks.ErrNotFound) {
			api.Success(w, classify.Suggestions{}, middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "week_scan_failed", "failed to load payroll scan", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, classify.ExtractSuggestions(scan.OCRText), middleware.GetRequestID(r.Context()))
}

func scanKey(userID, employeeNumber, weekStart, contentType string) string {
	ext := "jpg"
	if strings.Contains(contentType, "png") {
		ext = "png"
	}
	return fmt.Sprintf("%s/%s/payroll-%s.%s", userID, employeeNumber, weekStart, ext)
}
