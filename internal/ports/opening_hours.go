package ports

import "time"

// HoursCheck is the result of an opening-hours lookup. Only Open drives
// scheduling; the remaining fields are display metadata.
type HoursCheck struct {
	Open      bool
	Hours     string
	OpenTime  string
	CloseTime string
}

// Contract for deciding whether a pub opens early enough to visit on a
// given date.
type HoursChecker interface {
	Check(name string, date time.Time) HoursCheck
}
