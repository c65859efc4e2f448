package models

// UnknownSubjectName labels report rows whose subject no longer exists.
const UnknownSubjectName = "Unknown"

// Report row type labels.
const (
	ReportTypeRegular = "Regular"
	ReportTypeExtra   = "Extra"
)

// ReportFormat selects the export rendering.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportFilter scopes attendance history queries. Empty fields widen the
// filter; dates are inclusive bounds compared lexicographically.
type ReportFilter struct {
	SubjectID string
	StartDate string
	EndDate   string
}

// ReportRow is the projected history row used for listings and exports.
type ReportRow struct {
	Date    string  `json:"date"`
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
	Type    string  `json:"type"`
	Status  string  `json:"status"`
}
