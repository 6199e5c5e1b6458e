package services

import (
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// BuildDay assembles a day schedule from an already-ordered set of pubs:
// per-hop legs, home legs, and totals. The sources map carries the
// duplicate annotations keyed by DuplicateKey.
func BuildDay(est ports.Estimator, date string, ordered []domain.Pub, sources map[string]string, homeCode string) domain.ScheduleDay {
	day := domain.ScheduleDay{Date: date, Visits: make([]domain.Visit, 0, len(ordered))}
	for _, p := range ordered {
		day.Visits = append(day.Visits, domain.Visit{
			Pub:     p,
			Sources: sources[DuplicateKey(p)],
		})
	}
	Recalculate(est, &day, homeCode)
	return day
}

// Recalculate recomputes every derived travel metric on a day from its
// visit sequence: hop legs, both home legs, and the totals. It must run
// after any mutation of the sequence; aggregates are never stored
// independently of the visits.
func Recalculate(est ports.Estimator, day *domain.ScheduleDay, homeCode string) {
	if len(day.Visits) == 0 {
		day.StartMileage, day.StartDriveTime = 0, 0
		day.EndMileage, day.EndDriveTime = 0, 0
		day.TotalMileage, day.TotalDriveTime = 0, 0
		return
	}

	hopMileage := 0.0
	hopDriveTime := 0
	for i := range day.Visits {
		if i == len(day.Visits)-1 {
			day.Visits[i].MileageToNext = 0
			day.Visits[i].DriveTimeToNext = 0
			continue
		}
		leg := est.Estimate(day.Visits[i].Postcode, day.Visits[i+1].Postcode)
		day.Visits[i].MileageToNext = leg.Mileage
		day.Visits[i].DriveTimeToNext = leg.DriveTime
		hopMileage += leg.Mileage
		hopDriveTime += leg.DriveTime
	}

	start := est.Estimate(homeCode, day.Visits[0].Postcode)
	end := est.Estimate(day.Visits[len(day.Visits)-1].Postcode, homeCode)

	day.StartMileage, day.StartDriveTime = start.Mileage, start.DriveTime
	day.EndMileage, day.EndDriveTime = end.Mileage, end.DriveTime
	day.TotalMileage = hopMileage + start.Mileage + end.Mileage
	day.TotalDriveTime = hopDriveTime + start.DriveTime + end.DriveTime
}
