package distance

import (
	"math"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// FixedEstimator is the postcode heuristic with jitter and traffic delay
// removed. It is fully deterministic, which makes schedule construction
// idempotent for identical inputs.
type FixedEstimator struct{}

func (FixedEstimator) Estimate(from, to string) ports.Leg {
	if from == "" || to == "" {
		return ports.Leg{}
	}

	fromArea, fromDistrict := domain.ParsePostcode(from)
	toArea, toDistrict := domain.ParsePostcode(to)
	if fromArea == domain.UnknownArea || toArea == domain.UnknownArea {
		return ports.Leg{}
	}

	districtDiff := math.Abs(float64(fromDistrict - toDistrict))
	letterDiff := math.Abs(float64(fromArea[len(fromArea)-1]) - float64(toArea[len(toArea)-1]))

	mileage := districtDiff * mileagePerDistrict
	if fromArea != toArea {
		mileage += letterDiff * mileagePerLetter
	}
	mileage = math.Max(minMileage, mileage)

	driveTime := int(math.Round(baseDriveMinutes + mileage*minutesPerMile))
	if driveTime < minDriveMinutes {
		driveTime = minDriveMinutes
	}

	return ports.Leg{
		Mileage:   math.Round(mileage*10) / 10,
		DriveTime: driveTime,
	}
}

// TablePair is one directed entry for a TableEstimator.
type TablePair struct {
	From, To  string
	Mileage   float64
	DriveTime int
}

// TableEstimator serves legs from a fixed table. Missing pairs yield a
// zero leg, matching the soft-fail contract of the real estimator.
type TableEstimator struct {
	m map[string]ports.Leg
}

func NewTableEstimator(pairs []TablePair) *TableEstimator {
	m := make(map[string]ports.Leg, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.Leg{Mileage: p.Mileage, DriveTime: p.DriveTime}
	}
	return &TableEstimator{m: m}
}

func (t *TableEstimator) Estimate(from, to string) ports.Leg {
	return t.m[from+"|"+to]
}
