package export

import (
	"fmt"

	"visit-scheduler-service/internal/domain"
)

// Row is one spreadsheet line: a visit with its travel annotations. The
// first visit of a day carries the home leg in FromHome; the last carries
// the return leg in ToNext.
type Row struct {
	Date        string
	FromHome    string
	PubName     string
	Postcode    string
	LastVisited string
	Priority    string
	RTM         string
	Landlord    string
	Notes       string
	ToNext      string
}

// FormatLeg renders a travel leg the way every export surface shows it.
func FormatLeg(mileage float64, driveTime int) string {
	return fmt.Sprintf("%.1f mi / %d mins", mileage, driveTime)
}

// Rows flattens a schedule to one row per visit.
func Rows(schedule domain.Schedule) []Row {
	var rows []Row
	for _, day := range schedule {
		for i, v := range day.Visits {
			row := Row{
				Date:        day.Date,
				PubName:     v.Name,
				Postcode:    v.Postcode,
				LastVisited: v.LastVisited,
				Priority:    string(v.Priority),
				RTM:         v.RTM,
				Landlord:    v.Landlord,
				Notes:       v.Notes,
			}
			if i == 0 {
				row.FromHome = FormatLeg(day.StartMileage, day.StartDriveTime)
			}
			if i == len(day.Visits)-1 {
				row.ToNext = "To Home: " + FormatLeg(day.EndMileage, day.EndDriveTime)
			} else {
				row.ToNext = FormatLeg(v.MileageToNext, v.DriveTimeToNext)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
