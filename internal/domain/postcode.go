package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownArea is the sentinel area for postcodes that do not parse.
const UnknownArea = "Unknown"

var (
	postcodeRe = regexp.MustCompile(`([A-Za-z]+)(\d+)`)
	ukFormatRe = regexp.MustCompile(`^[A-Za-z]{1,2}\d[A-Za-z\d]?\s*\d[A-Za-z]{2}$`)
)

// ParsePostcode splits a postcode into its alphabetic area and numeric
// district. Codes that do not match letters-then-digits yield
// (UnknownArea, -1); callers treat that as "no distance known", not an
// error, so incomplete data never blocks scheduling.
func ParsePostcode(code string) (string, int) {
	m := postcodeRe.FindStringSubmatch(code)
	if m == nil {
		return UnknownArea, -1
	}
	district, err := strconv.Atoi(m[2])
	if err != nil {
		return UnknownArea, -1
	}
	return strings.ToUpper(m[1]), district
}

// OutwardCode returns the part of a postcode before the first space,
// uppercased.
func OutwardCode(code string) string {
	return strings.ToUpper(strings.SplitN(strings.TrimSpace(code), " ", 2)[0])
}

// ValidUKPostcode reports whether the code matches the national postcode
// format, with or without the separating space.
func ValidUKPostcode(code string) bool {
	return ukFormatRe.MatchString(strings.TrimSpace(code))
}

// AdjacentDistricts returns the outward codes numerically adjacent to the
// given postcode's district, for widening an empty area search.
func AdjacentDistricts(code string) []string {
	area, district := ParsePostcode(OutwardCode(code))
	if area == UnknownArea {
		return nil
	}
	adjacent := []string{fmt.Sprintf("%s%d", area, district+1)}
	if district > 0 {
		adjacent = append(adjacent, fmt.Sprintf("%s%d", area, district-1))
	}
	return adjacent
}

// AddBusinessDays advances a date by n business days, skipping weekends.
func AddBusinessDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n--
		}
	}
	return t
}
