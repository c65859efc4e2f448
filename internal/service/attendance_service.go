package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

// MarkAttendanceRequest records a regular class for a scheduled subject.
type MarkAttendanceRequest struct {
	SubjectID string                  `json:"subject_id" validate:"required"`
	Date      string                  `json:"date" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent cancelled"`
	Hours     float64                 `json:"hours" validate:"required,gt=0"`
}

// AddExtraClassRequest logs an ad-hoc class outside the weekly schedule.
// Extra classes cannot be cancelled, mirroring the restriction the
// original input surface imposed; the record layer itself does not
// enforce it.
type AddExtraClassRequest struct {
	SubjectID string                  `json:"subject_id" validate:"required"`
	Date      string                  `json:"date" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent"`
	Hours     float64                 `json:"hours" validate:"required,gt=0"`
}

// HistoryEntry is an attendance record annotated with its subject name.
type HistoryEntry struct {
	models.AttendanceRecord
	SubjectName string `json:"subject_name"`
}

// AttendanceService handles marking, extra classes and history.
type AttendanceService struct {
	docs      *repository.Documents
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService creates a new attendance service.
func NewAttendanceService(docs *repository.Documents, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{docs: docs, validator: validate, logger: logger}
}

// Mark creates the single regular attendance record for a subject and
// date. Units are derived once here and never recomputed.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingSelection.Code, appErrors.ErrMissingSelection.Status, "subject, date, status and hours are required")
	}
	if _, err := models.ParseDate(req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	record := newRecord(req.SubjectID, req.Date, req.Status, req.Hours, false)

	err := s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		if !subjectExists(snap.Subjects(), req.SubjectID) {
			return appErrors.Clone(appErrors.ErrMissingSelection, "subject does not exist")
		}
		records := snap.Attendance()
		if models.FindRegularMark(records, req.SubjectID, req.Date) != nil {
			return appErrors.ErrDuplicateMark
		}
		snap.SetAttendance(append(records, *record))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance marked",
		zap.String("subject_id", record.SubjectID),
		zap.String("date", record.Date),
		zap.String("status", string(record.Status)))
	return record, nil
}

// AddExtra logs an extra class. Multiple extra classes per subject per
// day are allowed.
func (s *AttendanceService) AddExtra(ctx context.Context, req AddExtraClassRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingSelection.Code, appErrors.ErrMissingSelection.Status, "subject, date, status and hours are required")
	}
	if _, err := models.ParseDate(req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	record := newRecord(req.SubjectID, req.Date, req.Status, req.Hours, true)

	err := s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		if !subjectExists(snap.Subjects(), req.SubjectID) {
			return appErrors.Clone(appErrors.ErrMissingSelection, "subject does not exist")
		}
		snap.SetAttendance(append(snap.Attendance(), *record))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// History returns all records newest date first, annotated with subject
// names. Records for deleted subjects cannot appear because subject
// deletion cascades.
func (s *AttendanceService) History(ctx context.Context) ([]HistoryEntry, error) {
	var history []HistoryEntry
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		names := subjectNames(snap.Subjects())
		records := snap.Attendance()
		history = make([]HistoryEntry, 0, len(records))
		for _, record := range records {
			history = append(history, HistoryEntry{AttendanceRecord: record, SubjectName: names[record.SubjectID]})
		}
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Date > history[j].Date
		})
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}
	return history, nil
}

// Delete removes one record by id.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	return s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		records := snap.Attendance()
		kept := make([]models.AttendanceRecord, 0, len(records))
		found := false
		for _, record := range records {
			if record.ID == id {
				found = true
				continue
			}
			kept = append(kept, record)
		}
		if !found {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		snap.SetAttendance(kept)
		return nil
	})
}

func newRecord(subjectID, date string, status models.AttendanceStatus, hours float64, extra bool) *models.AttendanceRecord {
	attended, total := models.DeriveUnits(status, hours)
	return &models.AttendanceRecord{
		ID:            uuid.NewString(),
		SubjectID:     subjectID,
		Date:          date,
		Status:        status,
		Hours:         hours,
		AttendedUnits: attended,
		TotalUnits:    total,
		IsExtra:       extra,
	}
}
