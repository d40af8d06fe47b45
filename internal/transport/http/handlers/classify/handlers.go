package classifyhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/classify"
	"flatrate/internal/transport/http/api"
	"flatrate/internal/transport/http/middleware"
)

type Handler struct {
	Store *classify.Store
}

func NewHandler(store *classify.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rules", func(r chi.Router) {
		r.Get("/", h.handleListRules)
		r.Post("/", h.handleCreateRule)
		r.Delete("/{ruleID}", h.handleDeleteRule)
	})
	r.Post("/classify", h.handleClassify)
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	rules, err := h.Store.ListRules(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rules_list_failed", "failed to list rules", middleware.GetRequestID(r.Context()))
		return
	}
	if rules == nil {
		rules = []classify.PrefixRule{}
	}
	api.Success(w, rules, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload classify.PrefixRule
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	payload.Prefix = strings.TrimSpace(payload.Prefix)
	payload.Brand = strings.TrimSpace(payload.Brand)
	if payload.Prefix == "" || payload.Brand == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_rule", "prefix and brand are required", middleware.GetRequestID(r.Context()))
		return
	}
	id, err := h.Store.CreateRule(r.Context(), user.UserID, payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rule_create_failed", "failed to create rule", middleware.GetRequestID(r.Context()))
		return
	}
	payload.ID = id
	payload.Prefix = strings.ToUpper(payload.Prefix)
	api.Created(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.DeleteRule(r.Context(), user.UserID, chi.URLParam(r, "ruleID")); err != nil {
		if errors.Is(err, classify.ErrRuleNotFound) {
			api.Fail(w, http.StatusNotFound, "rule_not_found", "rule not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "rule_delete_failed", "failed to delete rule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type classifyRequest struct {
	Stock   string `json:"stock"`
	OCRText string `json:"ocrText"`
}

func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	var payload classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	rules, err := h.Store.ListRules(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rules_list_failed", "failed to load rules", middleware.GetRequestID(r.Context()))
		return
	}

	out := map[string]any{
		"brand": classify.DetectBrand(payload.Stock, payload.OCRText, rules),
		"stock": classify.NormalizeStock(payload.Stock),
	}
	if guess := classify.DetectFromStock(payload.Stock, rules); guess != nil {
		out["vehicleType"] = guess.VehicleType
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
