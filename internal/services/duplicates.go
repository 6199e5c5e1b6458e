package services

import (
	"strings"

	"visit-scheduler-service/internal/domain"
)

// normalizeName reduces a pub name to its first four lowercased
// alphanumeric characters for duplicate keying.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	return b.String()
}

// DuplicateKey identifies a pub across source lists: postcode plus the
// normalized name prefix.
func DuplicateKey(p domain.Pub) string {
	return p.Postcode + "-" + normalizeName(p.Name)
}

// FindDuplicates groups pubs that represent the same place across uploaded
// lists. Pubs missing a name or postcode are excluded from detection.
// Only groups with at least two members are reported.
func FindDuplicates(pubs []domain.Pub) map[string][]domain.Pub {
	groups := make(map[string][]domain.Pub)
	for _, p := range pubs {
		if !p.Schedulable() {
			continue
		}
		key := DuplicateKey(p)
		groups[key] = append(groups[key], p)
	}

	duplicates := make(map[string][]domain.Pub)
	for key, group := range groups {
		if len(group) > 1 {
			duplicates[key] = group
		}
	}
	return duplicates
}

// SourceAnnotations maps duplicate keys to a human-readable record of the
// priority tags that produced duplicate entries. The annotation is display
// only; ranking logic never reads it.
func SourceAnnotations(duplicates map[string][]domain.Pub) map[string]string {
	annotations := make(map[string]string, len(duplicates))
	for key, group := range duplicates {
		tags := make([]string, 0, len(group))
		for _, p := range group {
			tags = append(tags, string(p.Priority))
		}
		annotations[key] = strings.Join(tags, ", ")
	}
	return annotations
}
