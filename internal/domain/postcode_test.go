package domain

import (
	"testing"
	"time"
)

func TestParsePostcode(t *testing.T) {
	cases := []struct {
		in       string
		area     string
		district int
	}{
		{"SK14 2BB", "SK", 14},
		{"sk1 1aa", "SK", 1},
		{"M1 1AE", "M", 1},
		{"1AB", UnknownArea, -1},
		{"???", UnknownArea, -1},
		{"", UnknownArea, -1},
	}

	for _, c := range cases {
		area, district := ParsePostcode(c.in)
		if area != c.area || district != c.district {
			t.Errorf("ParsePostcode(%q) = (%q, %d), want (%q, %d)",
				c.in, area, district, c.area, c.district)
		}
	}
}

func TestOutwardCode(t *testing.T) {
	if got := OutwardCode("sk14 2bb"); got != "SK14" {
		t.Fatalf("OutwardCode = %q, want SK14", got)
	}
	if got := OutwardCode("  SK14  "); got != "SK14" {
		t.Fatalf("OutwardCode trimmed = %q, want SK14", got)
	}
}

func TestValidUKPostcode(t *testing.T) {
	valid := []string{"SK14 2BB", "SK142BB", "E1 6AN", "EC1A 1BB", " M1 1AE "}
	for _, code := range valid {
		if !ValidUKPostcode(code) {
			t.Errorf("ValidUKPostcode(%q) = false, want true", code)
		}
	}

	invalid := []string{"SK14", "12345", "", "NOT A CODE"}
	for _, code := range invalid {
		if ValidUKPostcode(code) {
			t.Errorf("ValidUKPostcode(%q) = true, want false", code)
		}
	}
}

func TestAdjacentDistricts(t *testing.T) {
	got := AdjacentDistricts("SK14 2BB")
	if len(got) != 2 || got[0] != "SK15" || got[1] != "SK13" {
		t.Fatalf("AdjacentDistricts(SK14 2BB) = %v, want [SK15 SK13]", got)
	}

	// District zero has no lower neighbor.
	got = AdjacentDistricts("S0 1AA")
	if len(got) != 1 || got[0] != "S1" {
		t.Fatalf("AdjacentDistricts(S0 1AA) = %v, want [S1]", got)
	}

	if got := AdjacentDistricts("???"); got != nil {
		t.Fatalf("AdjacentDistricts(???) = %v, want nil", got)
	}
}

func TestAddBusinessDays(t *testing.T) {
	friday := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	if got := AddBusinessDays(friday, 0); !got.Equal(friday) {
		t.Fatalf("adding zero days moved the date to %v", got)
	}

	// Friday + 1 skips the weekend.
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := AddBusinessDays(friday, 1); !got.Equal(monday) {
		t.Fatalf("Friday + 1 business day = %v, want %v", got, monday)
	}

	wednesday := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	if got := AddBusinessDays(wednesday, 3); !got.Equal(nextMonday) {
		t.Fatalf("Wednesday + 3 business days = %v, want %v", got, nextMonday)
	}
}
