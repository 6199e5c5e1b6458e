package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"visit-scheduler-service/internal/domain"
)

const (
	icalProdID     = "-//Visit Scheduler//Planner//EN"
	icalDomain     = "visitscheduler"
	firstVisitHour = 9
	visitDuration  = time.Hour
)

// EncodeICS renders the schedule as an iCalendar feed: one event per
// visit, one hour long, the day's visits starting at 09:00 and stacked
// hourly in route order. Descriptions embed the priority, postcode, and
// the computed travel leg that follows the visit.
func EncodeICS(schedule domain.Schedule) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icalProdID)

	stamp := time.Now().UTC()

	for _, day := range schedule {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			return nil, fmt.Errorf("encode ics: bad day date %q: %w", day.Date, err)
		}

		for i, v := range day.Visits {
			start := date.Add(time.Duration(firstVisitHour+i) * time.Hour)

			drive := ""
			if i == len(day.Visits)-1 {
				drive = "\nDrive home: " + FormatLeg(day.EndMileage, day.EndDriveTime)
			} else if v.MileageToNext > 0 {
				drive = "\nDrive to next: " + FormatLeg(v.MileageToNext, v.DriveTimeToNext)
			}

			event := ical.NewEvent()
			event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s-%d@%s", day.Date, v.ID, i, icalDomain))
			event.Props.SetText(ical.PropSummary, "Visit: "+v.Name)
			event.Props.SetText(ical.PropDescription,
				fmt.Sprintf("Priority: %s\nPostcode: %s%s", v.Priority, v.Postcode, drive))
			event.Props.SetText(ical.PropLocation, v.Postcode)
			event.Props.SetDateTime(ical.PropDateTimeStart, start)
			event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(visitDuration))
			event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode ics: %w", err)
	}
	return buf.Bytes(), nil
}
