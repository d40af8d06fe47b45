package rollupshandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/calendar"
	"flatrate/internal/domain/entries"
	"flatrate/internal/domain/rollup"
	"flatrate/internal/domain/weeks"
	"flatrate/internal/transport/http/api"
	"flatrate/internal/transport/http/middleware"
	"flatrate/internal/transport/http/shared"
)

type Handler struct {
	Entries *entries.Service
	Weeks   *weeks.Store
}

func NewHandler(entriesService *entries.Service, weekStore *weeks.Store) *Handler {
	return &Handler{Entries: entriesService, Weeks: weekStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/rollups/summary", h.handleSummary)
}

type summaryResponse struct {
	AnchorDay    string               `json:"anchorDay"`
	WeekStartKey string               `json:"weekStartKey"`
	Today        rollup.Totals        `json:"today"`
	ThisWeek     rollup.Totals        `json:"thisWeek"`
	ThisMonth    rollup.Totals        `json:"thisMonth"`
	AllTime      rollup.Totals        `json:"allTime"`
	Breakdown    []rollup.DayBucket   `json:"breakdown"`
	Comparison   rollup.WeekComparison `json:"comparison"`
	FlaggedHours *float64             `json:"flaggedHours,omitempty"`
	FlaggedDelta *float64             `json:"flaggedDelta,omitempty"`
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	now := time.Now()
	if day := r.URL.Query().Get("day"); day != "" {
		parsed, err := calendar.ParseDayKey(day)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_day", "day must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
			return
		}
		now = parsed
	}

	state := entries.ViewState{
		Mode:   entries.RangeAll,
		Search: r.URL.Query().Get("search"),
		Now:    now,
	}
	list, err := h.Entries.List(r.Context(), user.UserID, shared.EmployeeNumber(r), state)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "rollup_failed", "failed to compute rollups", middleware.GetRequestID(r.Context()))
		return
	}

	weekStart := calendar.StartOfWeek(now)
	monthStart := calendar.StartOfMonth(now)
	anchorDay := calendar.DayKey(now)

	var today, thisWeek, thisMonth []entries.WorkEntry
	for _, e := range list {
		if e.DayKey == anchorDay {
			today = append(today, e)
		}
		if calendar.InWeek(e.DayKey, weekStart) {
			thisWeek = append(thisWeek, e)
		}
		if calendar.InMonth(e.DayKey, monthStart) {
			thisMonth = append(thisMonth, e)
		}
	}

	out := summaryResponse{
		AnchorDay:    anchorDay,
		WeekStartKey: calendar.DayKey(weekStart),
		Today:        rollup.Aggregate(today),
		ThisWeek:     rollup.Aggregate(thisWeek),
		ThisMonth:    rollup.Aggregate(thisMonth),
		AllTime:      rollup.Aggregate(list),
		Breakdown:    rollup.WeekBreakdown(thisWeek, weekStart),
		Comparison:   rollup.CompareWeeks(list, now),
	}

	flag, err := h.Weeks.GetFlag(r.Context(), user.UserID, shared.EmployeeNumber(r), out.WeekStartKey)
	if err == nil {
		delta := rollup.FlaggedDelta(flag.FlaggedHours, out.ThisWeek.Hours)
		out.FlaggedHours = &flag.FlaggedHours
		out.FlaggedDelta = &delta
	} else if !errors.Is(err, weeks.ErrNotFound) {
		api.Fail(w, http.StatusInternalServerError, "rollup_failed", "failed to load week flag", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
