package ports

// Leg is the estimated travel cost between two postcodes.
type Leg struct {
	Mileage   float64
	DriveTime int // minutes
}

// Contract for estimating travel distance and duration between postcodes.
// Implementations must soft-fail: any unparseable code yields a zero Leg.
type Estimator interface {
	// Estimate returns the travel leg between two postcodes.
	Estimate(from, to string) Leg
}
