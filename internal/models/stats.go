package models

// AttendanceLevel classifies attendance health against subject thresholds.
type AttendanceLevel string

const (
	LevelRed    AttendanceLevel = "red"
	LevelYellow AttendanceLevel = "yellow"
	LevelGreen  AttendanceLevel = "green"
)

// ClassifyPercent maps an attendance percentage to its level. The green
// boundary is strict: a value exactly equal to the yellow threshold is
// yellow, not green.
func ClassifyPercent(percent, red, yellow float64) AttendanceLevel {
	switch {
	case percent > yellow:
		return LevelGreen
	case percent >= red:
		return LevelYellow
	default:
		return LevelRed
	}
}

// SubjectStats aggregates attendance units for one subject.
type SubjectStats struct {
	SubjectID      string          `json:"subject_id"`
	SubjectName    string          `json:"subject_name"`
	TotalUnits     float64         `json:"total_units"`
	AttendedUnits  float64         `json:"attended_units"`
	CancelledUnits float64         `json:"cancelled_units"`
	Percent        float64         `json:"percent"`
	Level          AttendanceLevel `json:"level"`
}

// GlobalStats aggregates attendance units across all subjects.
type GlobalStats struct {
	TotalSubjects  int     `json:"total_subjects"`
	TotalUnits     float64 `json:"total_units"`
	AttendedUnits  float64 `json:"attended_units"`
	OverallPercent float64 `json:"overall_percent"`
}
