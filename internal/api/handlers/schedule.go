package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"visit-scheduler-service/internal/api/dto"
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/platform/metrics"
	"visit-scheduler-service/internal/ports"
	"visit-scheduler-service/internal/services"
)

// ScheduleHandler builds and edits the visit schedule. One interactive
// user edits one schedule at a time; edits within a request are
// synchronous and the handler performs no internal locking.
type ScheduleHandler struct {
	Store ports.StateStore
	Est   ports.Estimator
	Hours ports.HoursChecker

	editor     *services.Editor
	editorHome string
	editorMax  int
}

// Plan builds a fresh schedule from the uploaded lists: opening-hours
// filter, duplicate annotation, tier allocation, per-day routing. The new
// schedule and the effective settings are persisted before responding.
func (h *ScheduleHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if len(snap.Lists[domain.PriorityMasterfile]) == 0 {
		writeError(w, r, http.StatusBadRequest, "upload a Masterfile list before planning")
		return
	}

	kpiDeadline := strings.TrimSpace(req.KPIDeadline)
	if kpiDeadline == "" {
		kpiDeadline = snap.Settings.KPIDeadline
	}
	if len(snap.Lists[domain.PriorityKPI]) > 0 && kpiDeadline == "" {
		writeError(w, r, http.StatusBadRequest, "kpi_deadline is required when KPI pubs are loaded")
		return
	}

	home := strings.TrimSpace(req.HomePostcode)
	if home == "" {
		home = snap.Settings.HomePostcode
	}
	if home == "" {
		writeError(w, r, http.StatusBadRequest, "home_postcode is required")
		return
	}

	businessDays := req.BusinessDays
	if businessDays == 0 {
		businessDays = snap.Settings.BusinessDays
	}
	if businessDays <= 0 {
		businessDays = 5
	}

	visitsPerDay := req.MaxVisitsPerDay
	if visitsPerDay == 0 {
		visitsPerDay = snap.Settings.VisitsPerDay
	}
	if visitsPerDay < 0 || visitsPerDay > 8 {
		writeError(w, r, http.StatusBadRequest, "max_visits_per_day must be between 1 and 8")
		return
	}

	startDate := time.Now()
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "start_date must be yyyy-MM-dd")
			return
		}
	}

	allPubs := flattenLists(snap.Lists)
	schedulable, unschedulable := services.SplitSchedulable(h.Hours, allPubs, startDate)

	schedule := services.Plan(h.Est, services.PlanRequest{
		Pubs:            schedulable,
		StartDate:       startDate,
		BusinessDays:    businessDays,
		HomePostcode:    home,
		MaxVisitsPerDay: visitsPerDay,
		MaxLegMinutes:   req.MaxLegMinutes,
		Deadline:        kpiDeadline,
	})

	snap.Schedule = schedule
	snap.Settings.HomePostcode = home
	snap.Settings.BusinessDays = businessDays
	if visitsPerDay > 0 {
		snap.Settings.VisitsPerDay = visitsPerDay
	}
	snap.Settings.KPIDeadline = kpiDeadline

	if err := h.Store.Save(r.Context(), snap); err != nil {
		metrics.PlansBuilt.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	metrics.PlansBuilt.WithLabelValues("ok").Inc()
	log.Info().
		Int("days", len(schedule)).
		Int("scheduled", len(schedule.ScheduledNames())).
		Int("unscheduled", len(unschedulable)).
		Msg("schedule planned")

	// Pubs the allocator could not reach also belong in unscheduled.
	placed := schedule.ScheduledNames()
	for _, p := range schedulable {
		if _, ok := placed[p.Name]; !ok {
			unschedulable = append(unschedulable, p)
		}
	}

	writeJSON(w, r, http.StatusOK, toScheduleResponse(schedule, unschedulable))
}

// Get returns the persisted schedule.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, r, http.StatusOK, toScheduleResponse(snap.Schedule, nil))
}

// RemoveVisit removes a visit from a day and slots in the best nearby
// not-yet-scheduled pub of equal or better priority, when one exists.
func (h *ScheduleHandler) RemoveVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RemoveVisitRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date == "" || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "date and name are required")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	editor := h.sessionEditor(snap.Settings)
	updated, replacement, ok := editor.RemoveAndReplace(snap.Schedule, req.Date, req.Name, flattenLists(snap.Lists))
	if !ok {
		writeError(w, r, http.StatusNotFound, "no such visit on that day")
		return
	}

	snap.Schedule = updated
	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.ScheduleEdits.WithLabelValues("remove").Inc()

	res := dto.RemoveVisitResponse{
		Replaced: replacement != nil,
		Day:      toDayResponse(updated[updated.DayByDate(req.Date)]),
	}
	if replacement != nil {
		res.Replacement = &dto.DayVisit{
			Name:     replacement.Name,
			Postcode: replacement.Postcode,
			Priority: string(replacement.Priority),
		}
	}
	writeJSON(w, r, http.StatusOK, res)
}

// UpdateVisit sets a visit's scheduled clock time and notes. The day is
// re-routed around its fixed times, so pinning a time can reorder the
// other visits.
func (h *ScheduleHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.UpdateVisitRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date == "" || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "date and name are required")
		return
	}
	if req.ScheduledTime != "" {
		if _, err := time.Parse("15:04", req.ScheduledTime); err != nil {
			writeError(w, r, http.StatusBadRequest, "scheduled_time must be HH:mm")
			return
		}
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	editor := h.sessionEditor(snap.Settings)
	updated, ok := editor.SetVisitDetails(snap.Schedule, req.Date, req.Name, req.ScheduledTime, req.VisitNotes)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no such visit on that day")
		return
	}

	snap.Schedule = updated
	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.ScheduleEdits.WithLabelValues("update_visit").Inc()

	writeJSON(w, r, http.StatusOK, toDayResponse(updated[updated.DayByDate(req.Date)]))
}

// Reschedule rebuilds one day around a new target postcode area, keeping
// the calendar date. An empty area is a recoverable outcome: the response
// tells the client whether an expanded retry is worth offering.
func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RescheduleDayRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date == "" {
		writeError(w, r, http.StatusBadRequest, "date is required")
		return
	}

	// Malformed postcodes never reach the editor.
	if !domain.ValidUKPostcode(req.Postcode) {
		writeError(w, r, http.StatusBadRequest, "postcode must be a valid UK postcode")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	editor := h.sessionEditor(snap.Settings)
	updated, err := editor.RescheduleDay(snap.Schedule, req.Date, req.Postcode, req.Expand, flattenLists(snap.Lists))
	if errors.Is(err, services.ErrNoCandidates) {
		writeJSON(w, r, http.StatusConflict, map[string]any{
			"error":      "no pubs found in target area",
			"can_expand": !req.Expand,
		})
		return
	}
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	snap.Schedule = updated
	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.ScheduleEdits.WithLabelValues("reschedule").Inc()

	writeJSON(w, r, http.StatusOK, toDayResponse(updated[updated.DayByDate(req.Date)]))
}

// AddAnyway schedules a pub that was filtered out, as its own single-visit
// day appended to the schedule.
func (h *ScheduleHandler) AddAnyway(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.AddAnywayRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	scheduled := snap.Schedule.ScheduledNames()
	if _, ok := scheduled[req.Name]; ok {
		writeError(w, r, http.StatusConflict, "pub is already scheduled")
		return
	}

	var pub *domain.Pub
	for _, p := range flattenLists(snap.Lists) {
		if p.Name == req.Name {
			pub = &p
			break
		}
	}
	if pub == nil {
		writeError(w, r, http.StatusNotFound, "no uploaded pub with that name")
		return
	}

	editor := h.sessionEditor(snap.Settings)
	snap.Schedule = editor.ScheduleAnyway(snap.Schedule, *pub, time.Now())

	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.ScheduleEdits.WithLabelValues("add_anyway").Inc()

	writeJSON(w, r, http.StatusOK, toScheduleResponse(snap.Schedule, nil))
}

// DeleteDay removes a whole day from the schedule.
func (h *ScheduleHandler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, r, http.StatusBadRequest, "date query parameter is required")
		return
	}

	snap, err := h.Store.Load(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	before := len(snap.Schedule)
	snap.Schedule = services.DeleteDay(snap.Schedule, date)
	if len(snap.Schedule) == before {
		writeError(w, r, http.StatusNotFound, "no day with that date")
		return
	}

	if err := h.Store.Save(r.Context(), snap); err != nil {
		log.Error().Err(err).Msg("save snapshot failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	metrics.ScheduleEdits.WithLabelValues("delete_day").Inc()

	writeJSON(w, r, http.StatusOK, toScheduleResponse(snap.Schedule, nil))
}

// sessionEditor returns the editor for the current settings. Changing the
// home postcode or day capacity starts a fresh edit session, which also
// resets the per-day removal memory.
func (h *ScheduleHandler) sessionEditor(settings ports.Settings) *services.Editor {
	home := settings.HomePostcode
	maxVisits := settings.VisitsPerDay
	if h.editor == nil || h.editorHome != home || h.editorMax != maxVisits {
		h.editor = services.NewEditor(h.Est, home, maxVisits)
		h.editorHome = home
		h.editorMax = maxVisits
	}
	return h.editor
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}
