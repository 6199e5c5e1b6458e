package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Pub is a single location on a territory list.
// Identity for scheduling purposes is name + postcode; both are displayed
// exactly as supplied. The priority tag is assigned at ingestion (per
// uploaded list), not intrinsic to the location.
type Pub struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Postcode     string   `json:"postcode"`
	Priority     Priority `json:"priority,omitempty"`
	LastVisited  string   `json:"last_visited,omitempty"`
	RTM          string   `json:"rtm,omitempty"`
	Landlord     string   `json:"landlord,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Deadline     string   `json:"deadline,omitempty"`
	FollowUpDate string   `json:"follow_up_date,omitempty"`
	FileName     string   `json:"file_name,omitempty"`
}

// Schedulable reports whether the pub carries the fields the allocator needs.
func (p Pub) Schedulable() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Postcode) != ""
}

// TagList stamps every pub in an uploaded list with its tier, source
// filename, optional deadline, and a fresh ID. This establishes the
// invariant that every pub entering the allocator has exactly one
// priority tag.
func TagList(pubs []Pub, tier Priority, fileName, deadline string) []Pub {
	tagged := make([]Pub, 0, len(pubs))
	for _, p := range pubs {
		p.ID = uuid.NewString()
		p.Priority = tier
		p.FileName = fileName
		if deadline != "" {
			p.Deadline = deadline
		}
		tagged = append(tagged, p)
	}
	return tagged
}
