package services

import (
	"errors"
	"sort"
	"time"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// ErrNoCandidates signals that an edit found nothing schedulable in the
// target area. It is a recoverable, expected outcome: callers typically
// offer a radius-expansion retry.
var ErrNoCandidates = errors.New("no candidate pubs in target area")

// replaceLegMinutes is the proximity budget for replacement search. It is
// tighter than the allocation radius so a swap stays within the day's
// existing cluster.
const replaceLegMinutes = 10

// Editor applies incremental mutations to a built schedule using the same
// primitives as the initial build. It remembers removals per day so a
// replacement never resurrects a pub the user just rejected. Callers
// serialize edits; the editor holds no locks.
type Editor struct {
	est          ports.Estimator
	homeCode     string
	maxVisits    int
	removedByDay map[string]map[string]struct{}
}

func NewEditor(est ports.Estimator, homeCode string, maxVisitsPerDay int) *Editor {
	if maxVisitsPerDay <= 0 {
		maxVisitsPerDay = defaultVisitsPerDay
	}
	if maxVisitsPerDay > maxVisitsPerDayCap {
		maxVisitsPerDay = maxVisitsPerDayCap
	}
	return &Editor{
		est:          est,
		homeCode:     homeCode,
		maxVisits:    maxVisitsPerDay,
		removedByDay: make(map[string]map[string]struct{}),
	}
}

// RemoveAndReplace removes the named visit from the day with the given
// date and tries to slot in the best not-yet-scheduled pub: rank no worse
// than the removed pub's, within the replacement radius, nearest-best with
// rank breaking ties first. With no eligible candidate the visit is
// removed outright. Day aggregates are recomputed either way.
//
// The returned visit is the replacement, or nil when the pub was removed
// without one. ok is false when the date or name was not found.
func (e *Editor) RemoveAndReplace(schedule domain.Schedule, date, name string, pool []domain.Pub) (domain.Schedule, *domain.Visit, bool) {
	di := schedule.DayByDate(date)
	if di < 0 {
		return schedule, nil, false
	}

	day := &schedule[di]
	vi := -1
	for i, v := range day.Visits {
		if v.Name == name {
			vi = i
			break
		}
	}
	if vi < 0 {
		return schedule, nil, false
	}
	removed := day.Visits[vi]

	if e.removedByDay[date] == nil {
		e.removedByDay[date] = make(map[string]struct{})
	}
	e.removedByDay[date][name] = struct{}{}

	replacement := e.findReplacement(schedule, date, removed.Pub, pool)

	if replacement != nil {
		day.Visits[vi] = domain.Visit{Pub: *replacement}
	} else {
		day.Visits = append(day.Visits[:vi], day.Visits[vi+1:]...)
	}
	Recalculate(e.est, day, e.homeCode)

	if replacement == nil {
		return schedule, nil, true
	}
	v := day.Visits[vi]
	return schedule, &v, true
}

func (e *Editor) findReplacement(schedule domain.Schedule, date string, removed domain.Pub, pool []domain.Pub) *domain.Pub {
	scheduled := schedule.ScheduledNames()
	rejected := e.removedByDay[date]

	eligible := make([]domain.Pub, 0, len(pool))
	for _, p := range pool {
		if !p.Schedulable() {
			continue
		}
		if _, ok := scheduled[p.Name]; ok {
			continue
		}
		if _, ok := rejected[p.Name]; ok {
			continue
		}
		if p.Priority.Rank() <= removed.Priority.Rank() {
			eligible = append(eligible, p)
		}
	}

	nearby := FindNearest(e.est, removed, eligible, replaceLegMinutes)
	if len(nearby) == 0 {
		return nil
	}

	// Best rank first; equal ranks resolve by distance from the removed pub.
	sort.SliceStable(nearby, func(i, j int) bool {
		ri, rj := nearby[i].Priority.Rank(), nearby[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		mi := e.est.Estimate(removed.Postcode, nearby[i].Postcode).Mileage
		mj := e.est.Estimate(removed.Postcode, nearby[j].Postcode).Mileage
		return mi < mj
	})

	return &nearby[0]
}

// SetVisitDetails writes a visit's scheduled clock time and notes, then
// re-routes the day around its fixed times and recomputes the aggregates.
// Both fields are overwritten with what the caller supplies; an empty
// scheduled time releases the visit back to free ordering.
//
// ok is false when the date or name was not found.
func (e *Editor) SetVisitDetails(schedule domain.Schedule, date, name, scheduledTime, notes string) (domain.Schedule, bool) {
	di := schedule.DayByDate(date)
	if di < 0 {
		return schedule, false
	}

	day := &schedule[di]
	vi := -1
	for i, v := range day.Visits {
		if v.Name == name {
			vi = i
			break
		}
	}
	if vi < 0 {
		return schedule, false
	}

	day.Visits[vi].ScheduledTime = scheduledTime
	day.Visits[vi].VisitNotes = notes

	day.Visits = ReorderVisits(e.est, day.Visits, e.homeCode)
	Recalculate(e.est, day, e.homeCode)
	return schedule, true
}

// RescheduleDay discards the day's visits and rebuilds it around a new
// target postcode area, keeping the original calendar date. Candidates are
// pubs not scheduled elsewhere whose outward code falls in the target area
// (or its numerically adjacent districts when expand is set), best rank
// first then nearest to the target, capped at the day capacity.
//
// Returns ErrNoCandidates when the area holds nothing schedulable; callers
// may retry with expand=true.
func (e *Editor) RescheduleDay(schedule domain.Schedule, date, target string, expand bool, pool []domain.Pub) (domain.Schedule, error) {
	di := schedule.DayByDate(date)
	if di < 0 {
		return schedule, errors.New("reschedule day: no day with date " + date)
	}

	areas := []string{domain.OutwardCode(target)}
	if expand {
		areas = append(areas, domain.AdjacentDistricts(target)...)
	}

	current := make(map[string]struct{}, len(schedule[di].Visits))
	for _, v := range schedule[di].Visits {
		current[v.Name] = struct{}{}
	}
	scheduled := schedule.ScheduledNames()

	candidates := make([]domain.Pub, 0, len(pool))
	for _, p := range pool {
		if !p.Schedulable() {
			continue
		}
		if _, ok := current[p.Name]; ok {
			continue
		}
		if _, ok := scheduled[p.Name]; ok {
			continue
		}
		outward := domain.OutwardCode(p.Postcode)
		for _, area := range areas {
			if len(outward) >= len(area) && outward[:len(area)] == area {
				candidates = append(candidates, p)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return schedule, ErrNoCandidates
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := candidates[i].Priority.Rank(), candidates[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		mi := e.est.Estimate(target, candidates[i].Postcode).Mileage
		mj := e.est.Estimate(target, candidates[j].Postcode).Mileage
		return mi < mj
	})
	if len(candidates) > e.maxVisits {
		candidates = candidates[:e.maxVisits]
	}

	// The target area anchors routing as "home" for ordering purposes only;
	// the calendar date is preserved.
	startDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return schedule, errors.New("reschedule day: malformed date " + date)
	}
	rebuilt := Plan(e.est, PlanRequest{
		Pubs:            candidates,
		StartDate:       startDate,
		BusinessDays:    1,
		HomePostcode:    target,
		MaxVisitsPerDay: e.maxVisits,
	})
	if len(rebuilt) == 0 {
		return schedule, ErrNoCandidates
	}

	rebuilt[0].Date = date
	schedule[di] = rebuilt[0]
	return schedule, nil
}

// ScheduleAnyway appends a single-day entry for a previously filtered-out
// pub, planned like any other day. No date-collision check is performed:
// a duplicate date is appended as-is, since merging could overflow the
// target day's capacity and rejection would strand the pub again.
func (e *Editor) ScheduleAnyway(schedule domain.Schedule, pub domain.Pub, date time.Time) domain.Schedule {
	entry := Plan(e.est, PlanRequest{
		Pubs:            []domain.Pub{pub},
		StartDate:       date,
		BusinessDays:    1,
		HomePostcode:    e.homeCode,
		MaxVisitsPerDay: 1,
	})
	return append(schedule, entry...)
}

// DeleteDay removes the day with the given date from the schedule.
// Deletion is terminal; remaining days keep their dates.
func DeleteDay(schedule domain.Schedule, date string) domain.Schedule {
	out := schedule[:0]
	for _, day := range schedule {
		if day.Date != date {
			out = append(out, day)
		}
	}
	return out
}
