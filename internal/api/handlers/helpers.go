package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"visit-scheduler-service/internal/api/dto"
	"visit-scheduler-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func toPubResponse(p domain.Pub) dto.PubResponse {
	return dto.PubResponse{
		ID:          p.ID,
		Name:        p.Name,
		Postcode:    p.Postcode,
		Priority:    string(p.Priority),
		LastVisited: p.LastVisited,
		RTM:         p.RTM,
		Landlord:    p.Landlord,
		Notes:       p.Notes,
		Deadline:    p.Deadline,
		FileName:    p.FileName,
	}
}

func toDayResponse(day domain.ScheduleDay) dto.DayResponse {
	visits := make([]dto.VisitResponse, 0, len(day.Visits))
	for _, v := range day.Visits {
		visits = append(visits, dto.VisitResponse{
			PubResponse:     toPubResponse(v.Pub),
			MileageToNext:   v.MileageToNext,
			DriveTimeToNext: v.DriveTimeToNext,
			ScheduledTime:   v.ScheduledTime,
			VisitNotes:      v.VisitNotes,
			Sources:         v.Sources,
		})
	}
	return dto.DayResponse{
		Date:           day.Date,
		Visits:         visits,
		StartMileage:   day.StartMileage,
		StartDriveTime: day.StartDriveTime,
		EndMileage:     day.EndMileage,
		EndDriveTime:   day.EndDriveTime,
		TotalMileage:   day.TotalMileage,
		TotalDriveTime: day.TotalDriveTime,
	}
}

func toScheduleResponse(schedule domain.Schedule, unscheduled []domain.Pub) dto.ScheduleResponse {
	res := dto.ScheduleResponse{Days: make([]dto.DayResponse, 0, len(schedule))}
	for _, day := range schedule {
		res.Days = append(res.Days, toDayResponse(day))
	}
	for _, p := range unscheduled {
		res.Unscheduled = append(res.Unscheduled, toPubResponse(p))
	}
	return res
}

// flattenLists gathers every tagged pub across the snapshot's lists in
// tier order.
func flattenLists(lists map[domain.Priority][]domain.Pub) []domain.Pub {
	var all []domain.Pub
	for _, tier := range domain.Tiers {
		all = append(all, lists[tier]...)
	}
	return all
}
