package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

// AddScheduleEntryRequest appends a class slot to a weekday.
type AddScheduleEntryRequest struct {
	SubjectID string  `json:"subject_id" validate:"required"`
	Hours     float64 `json:"hours" validate:"required"`
}

// ScheduleDayView is one weekday with its entries annotated by subject name.
type ScheduleDayView struct {
	Day     models.Weekday      `json:"day"`
	Entries []ScheduleEntryView `json:"entries"`
}

// ScheduleEntryView pairs an entry with its resolved subject name.
type ScheduleEntryView struct {
	models.ScheduleEntry
	SubjectName string `json:"subject_name"`
}

// MarkableEntry pairs a scheduled entry with the existing non-extra
// attendance record for that subject and date, when one exists.
type MarkableEntry struct {
	Entry       models.ScheduleEntry     `json:"entry"`
	SubjectName string                   `json:"subject_name"`
	Existing    *models.AttendanceRecord `json:"existing,omitempty"`
}

// ScheduleService handles the weekly schedule and date resolution.
type ScheduleService struct {
	docs      *repository.Documents
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(docs *repository.Documents, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{docs: docs, validator: validate, logger: logger}
}

// Week returns the full schedule in weekday display order with subject
// names resolved.
func (s *ScheduleService) Week(ctx context.Context) ([]ScheduleDayView, error) {
	var week []ScheduleDayView
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		names := subjectNames(snap.Subjects())
		schedule := snap.Schedule()
		week = make([]ScheduleDayView, 0, len(models.Weekdays))
		for _, day := range models.Weekdays {
			entries := schedule.EntriesFor(day)
			views := make([]ScheduleEntryView, 0, len(entries))
			for _, entry := range entries {
				views = append(views, ScheduleEntryView{ScheduleEntry: entry, SubjectName: names[entry.SubjectID]})
			}
			week = append(week, ScheduleDayView{Day: day, Entries: views})
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return week, nil
}

// AddEntry appends an entry to a weekday after validating the subject
// reference and the half-hour step rule.
func (s *ScheduleService) AddEntry(ctx context.Context, day models.Weekday, req AddScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingSelection.Code, appErrors.ErrMissingSelection.Status, "subject and hours are required")
	}
	if !models.ValidHours(req.Hours) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "hours must be positive in half-hour steps")
	}

	entry := &models.ScheduleEntry{
		ID:        uuid.NewString(),
		SubjectID: req.SubjectID,
		Hours:     req.Hours,
	}

	err := s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		if !subjectExists(snap.Subjects(), req.SubjectID) {
			return appErrors.Clone(appErrors.ErrMissingSelection, "subject does not exist")
		}
		schedule := snap.Schedule()
		if schedule == nil {
			schedule = models.WeeklySchedule{}
		}
		schedule[day] = append(schedule[day], *entry)
		snap.SetSchedule(schedule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveEntry deletes one entry from a weekday.
func (s *ScheduleService) RemoveEntry(ctx context.Context, day models.Weekday, entryID string) error {
	return s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		schedule := snap.Schedule()
		entries := schedule.EntriesFor(day)
		kept := make([]models.ScheduleEntry, 0, len(entries))
		found := false
		for _, entry := range entries {
			if entry.ID == entryID {
				found = true
				continue
			}
			kept = append(kept, entry)
		}
		if !found {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		schedule[day] = kept
		snap.SetSchedule(schedule)
		return nil
	})
}

// EntriesForDate resolves a calendar date to its weekday and returns the
// ordered entries scheduled for it.
func (s *ScheduleService) EntriesForDate(ctx context.Context, date string) ([]models.ScheduleEntry, error) {
	day, err := models.WeekdayOf(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	var entries []models.ScheduleEntry
	viewErr := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		entries = append([]models.ScheduleEntry{}, snap.Schedule().EntriesFor(day)...)
		return nil
	})
	if viewErr != nil {
		return nil, appErrors.Wrap(viewErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return entries, nil
}

// MarkableForDate pairs each scheduled entry for the date with its
// existing non-extra attendance record, preserving schedule order. The
// result is stable across repeated calls on unchanged storage.
func (s *ScheduleService) MarkableForDate(ctx context.Context, date string) ([]MarkableEntry, error) {
	day, err := models.WeekdayOf(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	var result []MarkableEntry
	viewErr := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		names := subjectNames(snap.Subjects())
		entries := snap.Schedule().EntriesFor(day)
		records := snap.Attendance()
		result = make([]MarkableEntry, 0, len(entries))
		for _, entry := range entries {
			markable := MarkableEntry{Entry: entry, SubjectName: names[entry.SubjectID]}
			if existing := models.FindRegularMark(records, entry.SubjectID, date); existing != nil {
				copied := *existing
				markable.Existing = &copied
			}
			result = append(result, markable)
		}
		return nil
	})
	if viewErr != nil {
		return nil, appErrors.Wrap(viewErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve markable entries")
	}
	return result, nil
}

func subjectNames(subjects []models.Subject) map[string]string {
	names := make(map[string]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}
	return names
}

func subjectExists(subjects []models.Subject, id string) bool {
	for _, s := range subjects {
		if s.ID == id {
			return true
		}
	}
	return false
}
