package exportshandler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/calendar"
	"flatrate/internal/domain/entries"
	"flatrate/internal/domain/export"
	"flatrate/internal/domain/weeks"
	"flatrate/internal/platform/blob"
	"flatrate/internal/platform/metrics"
	"flatrate/internal/transport/http/api"
	"flatrate/internal/transport/http/middleware"
	"flatrate/internal/transport/http/shared"
)

type Handler struct {
	Entries *entries.Service
	Weeks   *weeks.Store
	Blobs   blob.Store
	Metrics *metrics.Collector
}

func NewHandler(entriesService *entries.Service, weekStore *weeks.Store, blobs blob.Store, collector *metrics.Collector) *Handler {
	return &Handler{Entries: entriesService, Weeks: weekStore, Blobs: blobs, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/exports", func(r chi.Router) {
		r.Get("/entries.csv", h.handleEntriesCSV)
		r.Get("/entries.json", h.handleEntriesJSON)
		r.Get("/week-summary.txt", h.handleWeekSummaryText)
		r.Get("/week-summary.pdf", h.handleWeekSummaryPDF)
		r.Get("/proof-packet.html", h.handleProofPacket)
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

func (h *Handler) listForExport(w http.ResponseWriter, r *http.Request) ([]entries.WorkEntry, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	list, err := h.Entries.List(r.Context(), user.UserID, shared.EmployeeNumber(r), viewStateFromQuery(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load entries", middleware.GetRequestID(r.Context()))
		return nil, false
	}
	return list, true
}

func (h *Handler) recordExport() {
	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}
}

func (h *Handler) handleEntriesCSV(w http.ResponseWriter, r *http.Request) {
	list, ok := h.listForExport(w, r)
	if !ok {
		return
	}
	includeOwner := shared.EmployeeNumber(r) != ""
	h.recordExport()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=flat-rate-entries.csv")
	_, _ = w.Write([]byte(export.EntriesCSV(list, includeOwner)))
}

func (h *Handler) handleEntriesJSON(w http.ResponseWriter, r *http.Request) {
	list, ok := h.listForExport(w, r)
	if !ok {
		return
	}
	h.recordExport()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=flat-rate-entries.json")
	_, _ = w.Write([]byte(export.EntriesJSON(list)))
}

// buildWeekPacket assembles the week evidence shared by the txt, pdf and
// html exports. The week query parameter defaults to the current week.
func (h *Handler) buildWeekPacket(w http.ResponseWriter, r *http.Request) (export.WeekPacket, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return export.WeekPacket{}, false
	}

	now := time.Now()
	anchor := now
	if week := r.URL.Query().Get("week"); week != "" {
		parsed, err := calendar.ParseDayKey(week)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_week", "week must be a YYYY-MM-DD day key", middleware.GetRequestID(r.Context()))
			return export.WeekPacket{}, false
		}
		anchor = parsed
	}
	weekStart := calendar.StartOfWeek(anchor)
	weekStartKey := calendar.DayKey(weekStart)
	weekEndKey := calendar.DayKey(calendar.EndOfWeek(anchor))

	empID := shared.EmployeeNumber(r)
	list, err := h.Entries.List(r.Context(), user.UserID, empID, entries.ViewState{Mode: entries.RangeAll, Now: anchor})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load entries", middleware.GetRequestID(r.Context()))
		return export.WeekPacket{}, false
	}
	var weekEntries []entries.WorkEntry
	for _, e := range list {
		if calendar.InWeek(e.DayKey, weekStart) {
			weekEntries = append(weekEntries, e)
		}
	}

	var flaggedHours float64
	if flag, err := h.Weeks.GetFlag(r.Context(), user.UserID, empID, weekStartKey); err == nil {
		flaggedHours = flag.FlaggedHours
	} else if !errors.Is(err, weeks.ErrNotFound) {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load week flag", middleware.GetRequestID(r.Context()))
		return export.WeekPacket{}, false
	}

	var photoSrc, ocrText string
	if scan, err := h.Weeks.GetScan(r.Context(), user.UserID, empID, weekStartKey); err == nil {
		ocrText = scan.OCRText
		if scan.PhotoPath != "" {
			if url, err := h.Blobs.URL(r.Context(), scan.PhotoPath); err == nil {
				photoSrc = url
			}
		}
	} else if !errors.Is(err, weeks.ErrNotFound) {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load payroll scan", middleware.GetRequestID(r.Context()))
		return export.WeekPacket{}, false
	}

	return export.BuildWeekPacket(weekEntries, weekStartKey, weekEndKey, flaggedHours, photoSrc, ocrText, now), true
}

func (h *Handler) handleWeekSummaryText(w http.ResponseWriter, r *http.Request) {
	packet, ok := h.buildWeekPacket(w, r)
	if !ok {
		return
	}
	h.recordExport()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=week-summary-"+packet.WeekStart+".txt")
	_, _ = w.Write([]byte(export.WeekSummaryText(packet)))
}

func (h *Handler) handleWeekSummaryPDF(w http.ResponseWriter, r *http.Request) {
	packet, ok := h.buildWeekPacket(w, r)
	if !ok {
		return
	}
	doc, err := export.WeekSummaryPDF(packet)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render pdf", middleware.GetRequestID(r.Context()))
		return
	}
	h.recordExport()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=week-summary-"+packet.WeekStart+".pdf")
	_, _ = w.Write(doc)
}

func (h *Handler) handleProofPacket(w http.ResponseWriter, r *http.Request) {
	packet, ok := h.buildWeekPacket(w, r)
	if !ok {
		return
	}
	h.recordExport()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=proof-packet-"+packet.WeekStart+".html")
	_, _ = w.Write([]byte(export.ProofPacketHTML(packet)))
}
