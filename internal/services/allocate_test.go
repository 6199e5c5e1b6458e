package services

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"visit-scheduler-service/internal/adapters/distance"
	"visit-scheduler-service/internal/domain"
)

func planFixture() PlanRequest {
	return PlanRequest{
		Pubs: []domain.Pub{
			{Name: "The Crown", Postcode: "SK2 2AA", Priority: domain.PriorityKPI},
			{Name: "The George", Postcode: "SK3 3AA", Priority: domain.PriorityKPI},
			{Name: "The Anchor", Postcode: "SK4 4AA", Priority: domain.PriorityWishlist},
			{Name: "The Plough", Postcode: "SK5 5AA", Priority: domain.PriorityWishlist},
			{Name: "The Swan", Postcode: "SK6 6AA", Priority: domain.PriorityMasterfile},
			{Name: "The Bull", Postcode: "SK7 7AA", Priority: domain.PriorityMasterfile},
			{Name: "The Star", Postcode: "SK8 8AA", Priority: domain.PriorityMasterfile},
			{Name: "The Vine", Postcode: "SK1 9AA", Priority: domain.PriorityMasterfile},
		},
		StartDate:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), // Monday
		BusinessDays:    2,
		HomePostcode:    "SK1 1AA",
		MaxVisitsPerDay: 3,
	}
}

func TestPlanTierQuotasAndRouting(t *testing.T) {
	schedule := Plan(distance.FixedEstimator{}, planFixture())

	if len(schedule) != 2 {
		t.Fatalf("expected 2 days, got %d", len(schedule))
	}
	if schedule[0].Date != "2026-01-05" || schedule[1].Date != "2026-01-06" {
		t.Fatalf("dates = [%s %s], want dense business days from the start date",
			schedule[0].Date, schedule[1].Date)
	}

	wantDays := [][]string{
		{"The Crown", "The Anchor", "The Swan"},
		{"The George", "The Plough", "The Bull"},
	}
	for d, want := range wantDays {
		day := schedule[d]
		if len(day.Visits) != len(want) {
			t.Fatalf("day %d has %d visits, want %d", d, len(day.Visits), len(want))
		}

		kpiCount := 0
		for i, v := range day.Visits {
			if v.Name != want[i] {
				t.Errorf("day %d visit %d = %q, want %q", d, i, v.Name, want[i])
			}
			if v.Priority == domain.PriorityKPI {
				kpiCount++
			}
		}
		// The per-tier quota spreads KPI pubs across days.
		if kpiCount != 1 {
			t.Errorf("day %d has %d KPI visits, want 1", d, kpiCount)
		}
	}

	// The two out-of-range pubs stay unscheduled.
	placed := schedule.ScheduledNames()
	if len(placed) != 6 {
		t.Fatalf("placed %d pubs, want 6", len(placed))
	}
	for _, name := range []string{"The Star", "The Vine"} {
		if _, ok := placed[name]; ok {
			t.Errorf("%q should not have been scheduled", name)
		}
	}
}

func TestPlanAggregatesMatchLegs(t *testing.T) {
	schedule := Plan(distance.FixedEstimator{}, planFixture())

	day := schedule[0]
	// SK1->SK2 (0.8) + SK2->SK4 (1.6) + SK4->SK6 (1.6) + SK6->SK1 (4.0).
	if math.Abs(day.TotalMileage-8.0) > 1e-9 {
		t.Errorf("day 0 total mileage = %v, want 8.0", day.TotalMileage)
	}

	for d, day := range schedule {
		hops := 0.0
		drive := 0
		for _, v := range day.Visits {
			hops += v.MileageToNext
			drive += v.DriveTimeToNext
		}
		if math.Abs(day.TotalMileage-(hops+day.StartMileage+day.EndMileage)) > 1e-9 {
			t.Errorf("day %d mileage aggregate does not equal its legs", d)
		}
		if day.TotalDriveTime != drive+day.StartDriveTime+day.EndDriveTime {
			t.Errorf("day %d drive time aggregate does not equal its legs", d)
		}
	}
}

func TestPlanTierCoverageAtScale(t *testing.T) {
	// Twelve pubs in one area, four per tier, four days, five visits a day:
	// every day must carry at least one KPI and one Wishlist pub until the
	// tier runs out.
	var pubs []domain.Pub
	for i, tier := range []domain.Priority{
		domain.PriorityKPI, domain.PriorityWishlist, domain.PriorityMasterfile,
	} {
		names := [][]string{
			{"The Crown", "The George", "The Star", "The Swan"},
			{"The Anchor", "The Plough", "The Bull", "The Vine"},
			{"The Oak", "The Bell", "The Ship", "The Fox"},
		}[i]
		for j, name := range names {
			pubs = append(pubs, domain.Pub{
				Name:     name,
				Postcode: fmt.Sprintf("SK%d 1AA", j+2),
				Priority: tier,
			})
		}
	}

	schedule := Plan(distance.FixedEstimator{}, PlanRequest{
		Pubs:            pubs,
		StartDate:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		BusinessDays:    4,
		HomePostcode:    "SK1 1AA",
		MaxVisitsPerDay: 5,
	})

	total := 0
	remaining := map[domain.Priority]int{
		domain.PriorityKPI:      4,
		domain.PriorityWishlist: 4,
	}
	for d, day := range schedule {
		if len(day.Visits) > 5 {
			t.Fatalf("day %d holds %d visits, cap is 5", d, len(day.Visits))
		}
		total += len(day.Visits)

		counts := make(map[domain.Priority]int)
		for _, v := range day.Visits {
			counts[v.Priority]++
		}
		for _, tier := range []domain.Priority{domain.PriorityKPI, domain.PriorityWishlist} {
			if remaining[tier] > 0 && counts[tier] == 0 {
				t.Errorf("day %d has no %s visit while %d remain", d, tier, remaining[tier])
			}
			remaining[tier] -= counts[tier]
		}
	}

	// Everything is within reach of everything else, so all twelve land.
	if total != 12 {
		t.Fatalf("scheduled %d visits, want 12", total)
	}
}

func TestPlanIdempotent(t *testing.T) {
	first := Plan(distance.FixedEstimator{}, planFixture())
	second := Plan(distance.FixedEstimator{}, planFixture())

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different schedules")
	}
}

func TestPlanSinglePub(t *testing.T) {
	schedule := Plan(distance.FixedEstimator{}, PlanRequest{
		Pubs:         []domain.Pub{{Name: "The Crown", Postcode: "SK3 2AA", Priority: domain.PriorityKPI}},
		StartDate:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		BusinessDays: 5,
		HomePostcode: "SK1 1AA",
	})

	if len(schedule) != 1 || len(schedule[0].Visits) != 1 {
		t.Fatalf("expected a single one-visit day, got %v", schedule)
	}
	day := schedule[0]
	if math.Abs(day.TotalMileage-(day.StartMileage+day.EndMileage)) > 1e-9 {
		t.Errorf("single-visit day mileage must be the two home legs")
	}
}

func TestPlanNothingReachable(t *testing.T) {
	req := planFixture()
	// Below the minimum possible leg time, so no pull ever succeeds.
	req.MaxLegMinutes = 6

	if schedule := Plan(distance.FixedEstimator{}, req); len(schedule) != 0 {
		t.Fatalf("expected empty schedule, got %d days", len(schedule))
	}
}

func TestPlanPreconditions(t *testing.T) {
	est := distance.FixedEstimator{}
	base := planFixture()

	empty := base
	empty.Pubs = nil
	if Plan(est, empty) != nil {
		t.Error("no pubs must produce nil")
	}

	noHome := base
	noHome.HomePostcode = ""
	if Plan(est, noHome) != nil {
		t.Error("no home postcode must produce nil")
	}

	noDays := base
	noDays.BusinessDays = 0
	if Plan(est, noDays) != nil {
		t.Error("zero business days must produce nil")
	}

	unschedulable := base
	unschedulable.Pubs = []domain.Pub{{Name: "", Postcode: "SK1 1AA"}}
	if Plan(est, unschedulable) != nil {
		t.Error("nothing schedulable must produce nil")
	}
}

func TestPlanCapsVisitsPerDay(t *testing.T) {
	req := planFixture()
	req.MaxVisitsPerDay = 50
	req.BusinessDays = 1

	schedule := Plan(distance.FixedEstimator{}, req)
	if len(schedule) != 1 {
		t.Fatalf("expected 1 day, got %d", len(schedule))
	}
	if len(schedule[0].Visits) > 8 {
		t.Fatalf("day holds %d visits, cap is 8", len(schedule[0].Visits))
	}
}
