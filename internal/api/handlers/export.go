package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"visit-scheduler-service/internal/export"
	"visit-scheduler-service/internal/ports"
)

// ExportHandler serves the persisted schedule as downloadable files.
type ExportHandler struct {
	Store ports.StateStore
}

// ICS streams the schedule as an iCalendar feed.
func (h *ExportHandler) ICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(snap.Schedule) == 0 {
		writeError(w, r, http.StatusNotFound, "no schedule to export")
		return
	}

	data, err := export.EncodeICS(snap.Schedule)
	if err != nil {
		log.Error().Err(err).Msg("ics encode failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("ics")))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("ics write failed")
	}
}

// XLSX streams the schedule as a spreadsheet.
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(snap.Schedule) == 0 {
		writeError(w, r, http.StatusNotFound, "no schedule to export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName("xlsx")))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteXLSX(snap.Schedule, w); err != nil {
		log.Error().Err(err).Msg("xlsx write failed")
	}
}

func exportFileName(ext string) string {
	return fmt.Sprintf("visit_schedule_%s.%s", time.Now().Format("2006-01-02"), ext)
}
