package dto

type PlanRequest struct {
	StartDate       string `json:"start_date,omitempty"`
	BusinessDays    int    `json:"business_days,omitempty"`
	HomePostcode    string `json:"home_postcode,omitempty"`
	MaxVisitsPerDay int    `json:"max_visits_per_day,omitempty"`
	MaxLegMinutes   int    `json:"max_leg_minutes,omitempty"`
	KPIDeadline     string `json:"kpi_deadline,omitempty"`
}

type VisitResponse struct {
	PubResponse
	MileageToNext   float64 `json:"mileage_to_next"`
	DriveTimeToNext int     `json:"drive_time_to_next"`
	ScheduledTime   string  `json:"scheduled_time,omitempty"`
	VisitNotes      string  `json:"visit_notes,omitempty"`
	Sources         string  `json:"sources,omitempty"`
}

type DayResponse struct {
	Date           string          `json:"date"`
	Visits         []VisitResponse `json:"visits"`
	StartMileage   float64         `json:"start_mileage"`
	StartDriveTime int             `json:"start_drive_time"`
	EndMileage     float64         `json:"end_mileage"`
	EndDriveTime   int             `json:"end_drive_time"`
	TotalMileage   float64         `json:"total_mileage"`
	TotalDriveTime int             `json:"total_drive_time"`
}

type ScheduleResponse struct {
	Days        []DayResponse `json:"days"`
	Unscheduled []PubResponse `json:"unscheduled,omitempty"`
}

type RemoveVisitRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type RemoveVisitResponse struct {
	Replaced    bool        `json:"replaced"`
	Replacement *DayVisit   `json:"replacement,omitempty"`
	Day         DayResponse `json:"day"`
}

// DayVisit identifies a replacement slot.
type DayVisit struct {
	Name     string `json:"name"`
	Postcode string `json:"postcode"`
	Priority string `json:"priority"`
}

type UpdateVisitRequest struct {
	Date          string `json:"date"`
	Name          string `json:"name"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	VisitNotes    string `json:"visit_notes,omitempty"`
}

type RescheduleDayRequest struct {
	Date     string `json:"date"`
	Postcode string `json:"postcode"`
	Expand   bool   `json:"expand,omitempty"`
}

type AddAnywayRequest struct {
	Name string `json:"name"`
}
