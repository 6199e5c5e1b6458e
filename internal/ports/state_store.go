package ports

import (
	"context"

	"visit-scheduler-service/internal/domain"
)

// Settings is the scheduling configuration persisted alongside the lists.
type Settings struct {
	HomePostcode     string `json:"home_postcode"`
	VisitsPerDay     int    `json:"visits_per_day"`
	BusinessDays     int    `json:"business_days"`
	KPIDeadline      string `json:"kpi_deadline,omitempty"`
	FollowUpDeadline string `json:"follow_up_deadline,omitempty"`
}

// Snapshot is the full persisted state: every uploaded list keyed by tier,
// the built schedule, and the configuration.
type Snapshot struct {
	Lists    map[domain.Priority][]domain.Pub `json:"lists"`
	Schedule domain.Schedule                  `json:"schedule"`
	Settings Settings                         `json:"settings"`
}

// Port: a boundary for loading and saving the scheduler state.
type StateStore interface {
	// Load returns the persisted snapshot. A missing or empty store yields
	// a zero Snapshot and no error.
	Load(ctx context.Context) (Snapshot, error)
	// Save atomically replaces the persisted snapshot.
	Save(ctx context.Context, snap Snapshot) error
}
