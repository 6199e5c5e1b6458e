package services

import (
	"sort"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// Route orders one day's pubs with a greedy nearest-neighbor walk.
//
// The algorithm minimizes immediate travel time at each step, starting
// from the home postcode. It does not attempt global route optimization;
// the design prioritizes determinism and simplicity over optimality.
//
// An empty homeCode, or a set with no valid postcodes, returns nil. That
// is a signaled precondition failure the caller must check, not a silent
// no-op.
func Route(est ports.Estimator, pubs []domain.Pub, homeCode string) []domain.Pub {
	if homeCode == "" || len(pubs) == 0 {
		return nil
	}

	remaining := make([]domain.Pub, 0, len(pubs))
	for _, p := range pubs {
		if p.Postcode != "" {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == 0 {
		return nil
	}

	ordered := make([]domain.Pub, 0, len(remaining))
	current := homeCode

	for len(remaining) > 0 {
		best := 0
		bestTime := est.Estimate(current, remaining[0].Postcode).DriveTime

		// Select next stop by minimum drive time (greedy step).
		// Strict less keeps ties on the first candidate in input order.
		for i := 1; i < len(remaining); i++ {
			if t := est.Estimate(current, remaining[i].Postcode).DriveTime; t < bestTime {
				best = i
				bestTime = t
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Postcode
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}

// ReorderVisits re-routes one day's visits while honoring user-assigned
// clock times. Visits with a scheduled time keep their chronological order;
// each remaining visit is inserted at whichever position minimizes the
// route's total mileage, first index winning ties.
//
// With no scheduled times it degenerates to the plain nearest-neighbor
// route from home.
func ReorderVisits(est ports.Estimator, visits []domain.Visit, homeCode string) []domain.Visit {
	var fixed, loose []domain.Visit
	for _, v := range visits {
		if v.ScheduledTime != "" {
			fixed = append(fixed, v)
		} else {
			loose = append(loose, v)
		}
	}

	if len(fixed) == 0 {
		pubs := make([]domain.Pub, 0, len(visits))
		byName := make(map[string]domain.Visit, len(visits))
		for _, v := range visits {
			pubs = append(pubs, v.Pub)
			byName[v.Name] = v
		}
		ordered := Route(est, pubs, homeCode)
		out := make([]domain.Visit, 0, len(ordered))
		for _, p := range ordered {
			out = append(out, byName[p.Name])
		}
		return out
	}

	sort.SliceStable(fixed, func(i, j int) bool {
		return fixed[i].ScheduledTime < fixed[j].ScheduledTime
	})

	route := fixed
	for _, v := range loose {
		bestPos := 0
		bestMileage := -1.0

		for i := 0; i <= len(route); i++ {
			trial := make([]domain.Visit, 0, len(route)+1)
			trial = append(trial, route[:i]...)
			trial = append(trial, v)
			trial = append(trial, route[i:]...)

			total := 0.0
			for j := 0; j < len(trial)-1; j++ {
				total += est.Estimate(trial[j].Postcode, trial[j+1].Postcode).Mileage
			}
			if bestMileage < 0 || total < bestMileage {
				bestMileage = total
				bestPos = i
			}
		}

		inserted := make([]domain.Visit, 0, len(route)+1)
		inserted = append(inserted, route[:bestPos]...)
		inserted = append(inserted, v)
		inserted = append(inserted, route[bestPos:]...)
		route = inserted
	}

	return route
}
