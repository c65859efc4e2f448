package models

import "strings"

// Threshold defaults applied to subjects persisted before per-subject
// thresholds existed.
const (
	DefaultRedThreshold    = 40.0
	DefaultYellowThreshold = 75.0
)

// Subject represents a tracked subject with its attendance health thresholds.
type Subject struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	RedThreshold    float64 `json:"redThreshold"`
	YellowThreshold float64 `json:"yellowThreshold"`
}

// Normalize backfills default thresholds on records stored before
// thresholds existed. Both values absent decodes as 0/0, which is never
// a valid explicit pair since red must stay below yellow.
func (s *Subject) Normalize() {
	if s.RedThreshold == 0 && s.YellowThreshold == 0 {
		s.RedThreshold = DefaultRedThreshold
		s.YellowThreshold = DefaultYellowThreshold
	}
}

// ValidThresholds reports whether the pair is inside [0,100] with red
// strictly below yellow.
func ValidThresholds(red, yellow float64) bool {
	if red < 0 || red > 100 || yellow < 0 || yellow > 100 {
		return false
	}
	return red < yellow
}

// NormalizeName canonicalises a subject name for uniqueness comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SubjectNameTaken reports whether the trimmed, case-insensitive name
// collides with any subject other than excludeID.
func SubjectNameTaken(subjects []Subject, name, excludeID string) bool {
	normalized := NormalizeName(name)
	for _, s := range subjects {
		if s.ID == excludeID {
			continue
		}
		if NormalizeName(s.Name) == normalized {
			return true
		}
	}
	return false
}
