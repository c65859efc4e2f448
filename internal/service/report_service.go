package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/export"
)

var reportHeaders = []string{"Date", "Subject", "Hours", "Type", "Status"}

// subjectColumn is the only report column carrying free text, so it is
// the only one quote-wrapped in CSV output.
const subjectColumn = 1

// BuildReportRows filters records by subject and inclusive date window,
// sorts them ascending by date keeping insertion order for ties, and
// projects them into report rows. Lexicographic comparison is valid
// because all dates are zero-padded ISO strings.
func BuildReportRows(subjects []models.Subject, records []models.AttendanceRecord, filter models.ReportFilter) []models.ReportRow {
	names := subjectNames(subjects)

	filtered := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if filter.SubjectID != "" && r.SubjectID != filter.SubjectID {
			continue
		}
		if filter.StartDate != "" && r.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && r.Date > filter.EndDate {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date < filtered[j].Date
	})

	rows := make([]models.ReportRow, 0, len(filtered))
	for _, r := range filtered {
		name, ok := names[r.SubjectID]
		if !ok {
			name = models.UnknownSubjectName
		}
		rowType := models.ReportTypeRegular
		if r.IsExtra {
			rowType = models.ReportTypeExtra
		}
		rows = append(rows, models.ReportRow{
			Date:    r.Date,
			Subject: name,
			Hours:   r.Hours,
			Type:    rowType,
			Status:  r.Status.Capitalized(),
		})
	}
	return rows
}

// ExportReportRequest drives report generation.
type ExportReportRequest struct {
	SubjectID string              `json:"subject_id"`
	StartDate string              `json:"start_date" validate:"required"`
	EndDate   string              `json:"end_date" validate:"required"`
	Format    models.ReportFormat `json:"format" validate:"omitempty,oneof=csv pdf"`
}

// ExportResult captures a rendered report export.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	StoredPath  string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ReportService filters attendance history and renders exports.
type ReportService struct {
	docs      *repository.Documents
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(docs *repository.Documents, storage fileStorage, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{docs: docs, storage: storage, csv: csv, pdf: pdf, validator: validate, logger: logger}
}

// Rows returns the filtered, projected report rows.
func (s *ReportService) Rows(ctx context.Context, filter models.ReportFilter) ([]models.ReportRow, error) {
	var rows []models.ReportRow
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		rows = BuildReportRows(snap.Subjects(), snap.Attendance(), filter)
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build report")
	}
	return rows, nil
}

// Export renders the filtered history as CSV or PDF, persists the file
// under the reports storage directory and returns the payload. A request
// without both dates, or one matching zero records, is rejected.
func (s *ReportService) Export(ctx context.Context, req ExportReportRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrEmptyExport, "start and end dates are required")
	}
	if _, err := models.ParseDate(req.StartDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date must be YYYY-MM-DD")
	}
	if _, err := models.ParseDate(req.EndDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must be YYYY-MM-DD")
	}
	if req.StartDate > req.EndDate {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start date cannot be after end date")
	}
	if req.Format == "" {
		req.Format = models.ReportFormatCSV
	}

	var rows []models.ReportRow
	var scopeName string
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		scopeName = "All_Subjects"
		if req.SubjectID != "" {
			scopeName = models.UnknownSubjectName
			for _, subject := range snap.Subjects() {
				if subject.ID == req.SubjectID {
					scopeName = subject.Name
					break
				}
			}
		}
		rows = BuildReportRows(snap.Subjects(), snap.Attendance(), models.ReportFilter{
			SubjectID: req.SubjectID,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		})
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build report")
	}
	if len(rows) == 0 {
		return nil, appErrors.ErrEmptyExport
	}

	dataset := export.Dataset{
		Headers:       reportHeaders,
		Rows:          make([][]string, 0, len(rows)),
		QuotedColumns: []int{subjectColumn},
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.Date,
			row.Subject,
			strconv.FormatFloat(row.Hours, 'f', -1, 64),
			row.Type,
			row.Status,
		})
	}

	var payload []byte
	var contentType, ext string
	switch req.Format {
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Attendance Report")
		contentType = "application/pdf"
		ext = "pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
		ext = "csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("attendance_report_%s_%s_to_%s.%s",
		sanitizeFilename(scopeName), req.StartDate, req.EndDate, ext)

	stored := ""
	if s.storage != nil {
		stored, err = s.storage.Save(filename, payload)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
		}
	}

	s.logger.Info("report exported",
		zap.String("filename", filename),
		zap.Int("rows", len(rows)),
		zap.String("format", string(req.Format)))

	return &ExportResult{
		Filename:    filename,
		ContentType: contentType,
		Payload:     payload,
		StoredPath:  stored,
	}, nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return replacer.Replace(name)
}
