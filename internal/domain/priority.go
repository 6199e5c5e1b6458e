package domain

// Priority is the tier a pub list is tagged with at ingestion.
// It determines scheduling precedence; lower rank schedules first.
type Priority string

const (
	PriorityKPI        Priority = "KPI"
	PriorityRecentWin  Priority = "RecentWin"
	PriorityWishlist   Priority = "Wishlist"
	PriorityUnvisited  Priority = "Unvisited"
	PriorityMasterfile Priority = "Masterfile"
)

// Tiers lists all priorities in scheduling order.
var Tiers = []Priority{
	PriorityKPI,
	PriorityRecentWin,
	PriorityWishlist,
	PriorityUnvisited,
	PriorityMasterfile,
}

// Rank returns the sort position of a priority.
// Unknown or missing tags rank with the catch-all tier.
func (p Priority) Rank() int {
	switch p {
	case PriorityKPI:
		return 0
	case PriorityRecentWin:
		return 1
	case PriorityWishlist:
		return 2
	case PriorityUnvisited:
		return 3
	case PriorityMasterfile:
		return 4
	default:
		return 4
	}
}
