package services

import (
	"math"
	"testing"

	"visit-scheduler-service/internal/adapters/distance"
	"visit-scheduler-service/internal/domain"
)

func TestBuildDay(t *testing.T) {
	est := distance.FixedEstimator{}
	home := "SK1 1AA"

	ordered := []domain.Pub{
		{Name: "The Crown", Postcode: "SK2 2BB", Priority: domain.PriorityKPI},
		{Name: "The Anchor", Postcode: "SK4 1AA", Priority: domain.PriorityMasterfile},
	}
	sources := map[string]string{
		DuplicateKey(ordered[0]): "KPI, Masterfile",
	}

	day := BuildDay(est, "2026-01-05", ordered, sources, home)

	if day.Date != "2026-01-05" {
		t.Fatalf("date = %q", day.Date)
	}
	if len(day.Visits) != 2 {
		t.Fatalf("visits = %d, want 2", len(day.Visits))
	}
	if day.Visits[0].Sources != "KPI, Masterfile" {
		t.Errorf("duplicate annotation missing: %q", day.Visits[0].Sources)
	}
	if day.Visits[1].Sources != "" {
		t.Errorf("unexpected annotation on non-duplicate: %q", day.Visits[1].Sources)
	}

	// Last visit carries no onward leg.
	if day.Visits[1].MileageToNext != 0 || day.Visits[1].DriveTimeToNext != 0 {
		t.Errorf("last visit leg = %v/%v, want zero",
			day.Visits[1].MileageToNext, day.Visits[1].DriveTimeToNext)
	}

	// SK1->SK2 = 0.8 mi, SK2->SK4 = 1.6 mi, SK4->SK1 = 2.4 mi.
	wantTotal := 0.8 + 1.6 + 2.4
	if math.Abs(day.TotalMileage-wantTotal) > 1e-9 {
		t.Errorf("total mileage = %v, want %v", day.TotalMileage, wantTotal)
	}
	if math.Abs(day.TotalMileage-(day.StartMileage+day.EndMileage+day.Visits[0].MileageToNext)) > 1e-9 {
		t.Errorf("aggregate mileage does not match its legs")
	}
	wantDrive := day.StartDriveTime + day.EndDriveTime + day.Visits[0].DriveTimeToNext
	if day.TotalDriveTime != wantDrive {
		t.Errorf("total drive time = %d, want %d", day.TotalDriveTime, wantDrive)
	}
}

func TestRecalculateEmptyDay(t *testing.T) {
	day := domain.ScheduleDay{
		Date:         "2026-01-05",
		StartMileage: 3.1,
		EndMileage:   2.2,
		TotalMileage: 9.9,
	}

	Recalculate(distance.FixedEstimator{}, &day, "SK1 1AA")

	if day.StartMileage != 0 || day.EndMileage != 0 || day.TotalMileage != 0 ||
		day.StartDriveTime != 0 || day.EndDriveTime != 0 || day.TotalDriveTime != 0 {
		t.Fatalf("empty day aggregates not zeroed: %+v", day)
	}
}
