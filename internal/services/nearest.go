package services

import (
	"sort"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// FindNearest returns the pubs in pool reachable from the given pub within
// maxLegMinutes of estimated drive time, nearest first. Legs are estimated
// once per candidate so jittered estimators stay consistent within one
// call. The sort is stable: ties keep input order.
func FindNearest(est ports.Estimator, from domain.Pub, pool []domain.Pub, maxLegMinutes int) []domain.Pub {
	if from.Postcode == "" || len(pool) == 0 {
		return nil
	}

	type candidate struct {
		pub domain.Pub
		leg ports.Leg
	}

	reachable := make([]candidate, 0, len(pool))
	for _, p := range pool {
		if p.Postcode == "" {
			continue
		}
		leg := est.Estimate(from.Postcode, p.Postcode)
		if leg.DriveTime <= maxLegMinutes {
			reachable = append(reachable, candidate{pub: p, leg: leg})
		}
	}

	sort.SliceStable(reachable, func(i, j int) bool {
		return reachable[i].leg.DriveTime < reachable[j].leg.DriveTime
	})

	out := make([]domain.Pub, 0, len(reachable))
	for _, c := range reachable {
		out = append(out, c.pub)
	}
	return out
}
