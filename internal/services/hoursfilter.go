package services

import (
	"time"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// SplitSchedulable partitions pubs by the opening-hours predicate before
// allocation: pubs that open early enough on the reference date are
// schedulable, the rest are returned for the caller to surface. The
// business rule for "early enough" lives entirely in the checker.
func SplitSchedulable(checker ports.HoursChecker, pubs []domain.Pub, ref time.Time) (schedulable, unschedulable []domain.Pub) {
	for _, p := range pubs {
		if checker.Check(p.Name, ref).Open {
			schedulable = append(schedulable, p)
		} else {
			unschedulable = append(unschedulable, p)
		}
	}
	return schedulable, unschedulable
}
