package services

import (
	"strings"
	"testing"

	"visit-scheduler-service/internal/domain"
)

func TestDuplicateKey(t *testing.T) {
	cases := []struct {
		pub  domain.Pub
		want string
	}{
		{domain.Pub{Name: "The Red Lion", Postcode: "SK14 2BB"}, "SK14 2BB-ther"},
		{domain.Pub{Name: "T.H. Ear 1", Postcode: "SK14 2BB"}, "SK14 2BB-thea"},
		{domain.Pub{Name: "Ox", Postcode: "M1 1AE"}, "M1 1AE-ox"},
	}
	for _, c := range cases {
		if got := DuplicateKey(c.pub); got != c.want {
			t.Errorf("DuplicateKey(%q) = %q, want %q", c.pub.Name, got, c.want)
		}
	}
}

func TestFindDuplicates(t *testing.T) {
	pubs := []domain.Pub{
		{Name: "The Red Lion", Postcode: "SK14 2BB", Priority: domain.PriorityKPI},
		{Name: "The Red Lion Inn", Postcode: "SK14 2BB", Priority: domain.PriorityMasterfile},
		{Name: "The Anchor", Postcode: "SK15 1AA", Priority: domain.PriorityWishlist},
		{Name: "", Postcode: "SK14 2BB"},
	}

	dups := FindDuplicates(pubs)
	if len(dups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %d", len(dups))
	}

	group, ok := dups["SK14 2BB-ther"]
	if !ok {
		t.Fatalf("missing expected group, got %v", dups)
	}
	if len(group) != 2 {
		t.Fatalf("group size = %d, want 2", len(group))
	}

	annotations := SourceAnnotations(dups)
	tags := annotations["SK14 2BB-ther"]
	if !strings.Contains(tags, "KPI") || !strings.Contains(tags, "Masterfile") {
		t.Errorf("annotation %q missing source tags", tags)
	}
}
