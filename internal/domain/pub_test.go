package domain

import (
	"testing"
)

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityKPI, PriorityRecentWin, PriorityWishlist, PriorityUnvisited, PriorityMasterfile}
	for i, p := range order {
		if p.Rank() != i {
			t.Errorf("%s.Rank() = %d, want %d", p, p.Rank(), i)
		}
	}

	// Unknown tags sink to the lowest rank instead of failing.
	if got := Priority("SomethingElse").Rank(); got != PriorityMasterfile.Rank() {
		t.Errorf("unknown priority rank = %d, want %d", got, PriorityMasterfile.Rank())
	}

	if len(Tiers) != 5 {
		t.Fatalf("expected 5 tiers, got %d", len(Tiers))
	}
}

func TestPubSchedulable(t *testing.T) {
	if !(Pub{Name: "The Crown", Postcode: "SK14 2BB"}).Schedulable() {
		t.Error("pub with name and postcode should be schedulable")
	}
	if (Pub{Name: "  ", Postcode: "SK14 2BB"}).Schedulable() {
		t.Error("blank name should not be schedulable")
	}
	if (Pub{Name: "The Crown", Postcode: " "}).Schedulable() {
		t.Error("blank postcode should not be schedulable")
	}
}

func TestTagList(t *testing.T) {
	pubs := []Pub{
		{Name: "The Crown", Postcode: "SK14 2BB"},
		{Name: "The Anchor", Postcode: "SK15 1AA", Deadline: "2026-02-01"},
	}

	tagged := TagList(pubs, PriorityKPI, "kpi_q1.xlsx", "2026-03-31")

	if len(tagged) != 2 {
		t.Fatalf("expected 2 tagged pubs, got %d", len(tagged))
	}
	seen := make(map[string]struct{})
	for _, p := range tagged {
		if p.ID == "" {
			t.Errorf("pub %q has no ID", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			t.Errorf("duplicate ID %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Priority != PriorityKPI {
			t.Errorf("pub %q priority = %q, want KPI", p.Name, p.Priority)
		}
		if p.FileName != "kpi_q1.xlsx" {
			t.Errorf("pub %q file = %q", p.Name, p.FileName)
		}
		if p.Deadline != "2026-03-31" {
			t.Errorf("pub %q deadline = %q, want 2026-03-31", p.Name, p.Deadline)
		}
	}

	// An empty deadline leaves per-pub deadlines alone.
	kept := TagList(pubs, PriorityWishlist, "wish.xlsx", "")
	if kept[1].Deadline != "2026-02-01" {
		t.Errorf("existing deadline overwritten: %q", kept[1].Deadline)
	}
}

func TestScheduleLookups(t *testing.T) {
	s := Schedule{
		{Date: "2026-01-05", Visits: []Visit{{Pub: Pub{Name: "A"}}, {Pub: Pub{Name: "B"}}}},
		{Date: "2026-01-06", Visits: []Visit{{Pub: Pub{Name: "C"}}}},
		{Date: "2026-01-05", Visits: []Visit{{Pub: Pub{Name: "D"}}}},
	}

	// Duplicate dates resolve to the first day.
	if got := s.DayByDate("2026-01-05"); got != 0 {
		t.Fatalf("DayByDate = %d, want 0", got)
	}
	if got := s.DayByDate("2026-01-09"); got != -1 {
		t.Fatalf("DayByDate missing = %d, want -1", got)
	}

	names := s.ScheduledNames()
	for _, want := range []string{"A", "B", "C", "D"} {
		if _, ok := names[want]; !ok {
			t.Errorf("ScheduledNames missing %q", want)
		}
	}
	if len(names) != 4 {
		t.Errorf("ScheduledNames size = %d, want 4", len(names))
	}
}
