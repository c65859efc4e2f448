package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	StatusPresent   AttendanceStatus = "present"
	StatusAbsent    AttendanceStatus = "absent"
	StatusCancelled AttendanceStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusCancelled:
		return true
	default:
		return false
	}
}

// Capitalized renders the status for report rows.
func (s AttendanceStatus) Capitalized() string {
	if s == "" {
		return ""
	}
	raw := string(s)
	return string(raw[0]-'a'+'A') + raw[1:]
}

// AttendanceRecord is a single marked class. Records are immutable once
// created; a correction is delete plus recreate.
type AttendanceRecord struct {
	ID            string           `json:"id"`
	SubjectID     string           `json:"subjectId"`
	Date          string           `json:"date"`
	Status        AttendanceStatus `json:"status"`
	Hours         float64          `json:"hours"`
	AttendedUnits float64          `json:"attendedUnits"`
	TotalUnits    float64          `json:"totalUnits"`
	IsExtra       bool             `json:"isExtra"`
}

// DeriveUnits computes the unit pair for a status at creation time.
// Present counts hours both attended and total, absent counts only
// total, cancelled counts toward neither.
func DeriveUnits(status AttendanceStatus, hours float64) (attended, total float64) {
	switch status {
	case StatusPresent:
		return hours, hours
	case StatusAbsent:
		return 0, hours
	default:
		return 0, 0
	}
}

// FindRegularMark returns the non-extra record for a subject on a date,
// or nil when the day is unmarked. Extra classes never collide.
func FindRegularMark(records []AttendanceRecord, subjectID, date string) *AttendanceRecord {
	for i := range records {
		r := &records[i]
		if !r.IsExtra && r.SubjectID == subjectID && r.Date == date {
			return r
		}
	}
	return nil
}
