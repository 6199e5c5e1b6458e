package domain

// Visit is a pub placed at a specific position within a day, carrying the
// computed travel leg to the following visit (zero for the last visit).
type Visit struct {
	Pub
	MileageToNext   float64 `json:"mileage_to_next"`
	DriveTimeToNext int     `json:"drive_time_to_next"`
	ScheduledTime   string  `json:"scheduled_time,omitempty"`
	VisitNotes      string  `json:"visit_notes,omitempty"`
	Sources         string  `json:"sources,omitempty"`
}

// ScheduleDay is one business day's ordered visits plus aggregate travel
// metrics. The aggregates are derived from the visit sequence; any mutation
// of Visits must be followed by a recalculation (services.Recalculate).
type ScheduleDay struct {
	Date           string  `json:"date"`
	Visits         []Visit `json:"visits"`
	StartMileage   float64 `json:"start_mileage"`
	StartDriveTime int     `json:"start_drive_time"`
	EndMileage     float64 `json:"end_mileage"`
	EndDriveTime   int     `json:"end_drive_time"`
	TotalMileage   float64 `json:"total_mileage"`
	TotalDriveTime int     `json:"total_drive_time"`
}

// Schedule is an ordered sequence of day schedules, one per produced
// business day.
type Schedule []ScheduleDay

// DayByDate returns the index of the day with the given date, or -1.
// Duplicate dates (from schedule-anyway appends) resolve to the first match.
func (s Schedule) DayByDate(date string) int {
	for i := range s {
		if s[i].Date == date {
			return i
		}
	}
	return -1
}

// ScheduledNames returns the set of pub names placed on any day.
func (s Schedule) ScheduledNames() map[string]struct{} {
	names := make(map[string]struct{})
	for _, day := range s {
		for _, v := range day.Visits {
			names[v.Name] = struct{}{}
		}
	}
	return names
}
