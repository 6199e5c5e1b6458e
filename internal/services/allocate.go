package services

import (
	"sort"
	"time"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// DefaultMaxLegMinutes is the proximity radius between consecutive
// same-day stops. Kept configurable on PlanRequest; the value itself is
// territory policy, not an algorithmic constant.
const DefaultMaxLegMinutes = 16

const (
	defaultVisitsPerDay = 5
	maxVisitsPerDayCap  = 8
)

// PlanRequest carries everything the allocator needs. Deadline is consumed
// by callers for warning display only, never inside the allocation loop.
type PlanRequest struct {
	Pubs            []domain.Pub
	StartDate       time.Time
	BusinessDays    int
	HomePostcode    string
	MaxVisitsPerDay int
	MaxLegMinutes   int
	Deadline        string
}

// Plan distributes the deduplicated, priority-sorted pub set across
// business days and routes each day.
//
// Per tier, a minimum required count per day (ceil(total/days), capped at
// the day capacity) guarantees deadline-bound tiers spread evenly instead
// of front- or back-loading. Quota pulls prefer tier members near the
// tier's first remaining pub; leftover capacity fills with whatever
// remains within the proximity radius of the day's last stop. Pubs outside
// the radius of everything scheduled simply stay unscheduled; surfacing
// them is the caller's job.
//
// Empty input or an empty home postcode returns an empty schedule, not an
// error: the surrounding system treats "nothing to schedule" as valid.
func Plan(est ports.Estimator, req PlanRequest) domain.Schedule {
	if len(req.Pubs) == 0 || req.HomePostcode == "" || req.BusinessDays <= 0 {
		return nil
	}

	maxVisits := req.MaxVisitsPerDay
	if maxVisits <= 0 {
		maxVisits = defaultVisitsPerDay
	}
	if maxVisits > maxVisitsPerDayCap {
		maxVisits = maxVisitsPerDayCap
	}
	radius := req.MaxLegMinutes
	if radius <= 0 {
		radius = DefaultMaxLegMinutes
	}

	remaining := make([]domain.Pub, 0, len(req.Pubs))
	for _, p := range req.Pubs {
		if p.Schedulable() {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		return nil
	}

	sources := SourceAnnotations(FindDuplicates(remaining))

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Priority.Rank() < remaining[j].Priority.Rank()
	})

	// Minimum per-day quota per tier: ceil(total/days), capped at capacity.
	tierCounts := make(map[domain.Priority]int)
	for _, p := range remaining {
		tierCounts[p.Priority]++
	}
	minPerDay := make(map[domain.Priority]int, len(tierCounts))
	for tier, count := range tierCounts {
		quota := (count + req.BusinessDays - 1) / req.BusinessDays
		if quota > maxVisits {
			quota = maxVisits
		}
		minPerDay[tier] = quota
	}

	schedule := make(domain.Schedule, 0, req.BusinessDays)

	for day := 0; day < req.BusinessDays && len(remaining) > 0; day++ {
		dayPubs := make([]domain.Pub, 0, maxVisits)

		// Satisfy tier quotas in priority order, clustering each pull
		// around the tier's first remaining pub.
		for _, tier := range domain.Tiers {
			if len(dayPubs) >= maxVisits {
				break
			}

			var tierPubs []domain.Pub
			for _, p := range remaining {
				if p.Priority == tier {
					tierPubs = append(tierPubs, p)
				}
			}
			if len(tierPubs) == 0 {
				continue
			}

			need := minPerDay[tier]
			if need > len(tierPubs) {
				need = len(tierPubs)
			}
			if slots := maxVisits - len(dayPubs); need > slots {
				need = slots
			}
			if need == 0 {
				continue
			}

			nearby := FindNearest(est, tierPubs[0], tierPubs, radius)
			if len(nearby) > need {
				nearby = nearby[:need]
			}
			dayPubs = append(dayPubs, nearby...)
			remaining = removeByName(remaining, nearby)
		}

		// Fill leftover capacity from any tier, chaining off the day's
		// last stop; stop when nothing is inside the radius.
		for len(dayPubs) > 0 && len(dayPubs) < maxVisits && len(remaining) > 0 {
			last := dayPubs[len(dayPubs)-1]
			nearby := FindNearest(est, last, remaining, radius)
			if len(nearby) == 0 {
				break
			}
			dayPubs = append(dayPubs, nearby[0])
			remaining = removeByName(remaining, nearby[:1])
		}

		// A day that collects nothing is dropped, not emitted empty; it
		// consumes no calendar date.
		if len(dayPubs) == 0 {
			continue
		}

		ordered := Route(est, dayPubs, req.HomePostcode)
		schedule = append(schedule, BuildDay(est, "", ordered, sources, req.HomePostcode))
	}

	// Dates go to produced days only, so they stay dense even when some
	// loop iterations collected nothing.
	for i := range schedule {
		schedule[i].Date = domain.AddBusinessDays(req.StartDate, i).Format("2006-01-02")
	}

	return schedule
}

func removeByName(pool []domain.Pub, taken []domain.Pub) []domain.Pub {
	names := make(map[string]struct{}, len(taken))
	for _, p := range taken {
		names[p.Name] = struct{}{}
	}
	out := pool[:0]
	for _, p := range pool {
		if _, ok := names[p.Name]; !ok {
			out = append(out, p)
		}
	}
	return out
}
