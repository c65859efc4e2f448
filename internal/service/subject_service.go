package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

// CreateSubjectRequest captures fields for creating subjects. Omitted
// thresholds fall back to the 40/75 defaults.
type CreateSubjectRequest struct {
	Name            string   `json:"name" validate:"required"`
	RedThreshold    *float64 `json:"red_threshold"`
	YellowThreshold *float64 `json:"yellow_threshold"`
}

// UpdateSubjectRequest renames a subject and/or retunes its thresholds.
type UpdateSubjectRequest struct {
	Name            string   `json:"name" validate:"required"`
	RedThreshold    *float64 `json:"red_threshold"`
	YellowThreshold *float64 `json:"yellow_threshold"`
}

// SubjectService handles subject domain workflows.
type SubjectService struct {
	docs      *repository.Documents
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(docs *repository.Documents, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{docs: docs, validator: validate, logger: logger}
}

// List returns all subjects in insertion order.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		subjects = snap.Subjects()
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

// Get returns a subject by identifier.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	var found *models.Subject
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		for _, subject := range snap.Subjects() {
			if subject.ID == id {
				copied := subject
				found = &copied
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if found == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return found, nil
}

// Create adds a new subject ensuring case-insensitive name uniqueness.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingSelection.Code, appErrors.ErrMissingSelection.Status, "subject name is required")
	}

	red, yellow, err := resolveThresholds(req.RedThreshold, req.YellowThreshold)
	if err != nil {
		return nil, err
	}

	subject := &models.Subject{
		ID:              uuid.NewString(),
		Name:            req.Name,
		RedThreshold:    red,
		YellowThreshold: yellow,
	}

	err = s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		subjects := snap.Subjects()
		if models.SubjectNameTaken(subjects, subject.Name, "") {
			return appErrors.ErrDuplicateName
		}
		snap.SetSubjects(append(subjects, *subject))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("subject created", zap.String("subject_id", subject.ID), zap.String("name", subject.Name))
	return subject, nil
}

// Update renames a subject and/or changes its thresholds. The uniqueness
// check excludes the subject itself, so renaming to the same name succeeds.
func (s *SubjectService) Update(ctx context.Context, id string, req UpdateSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMissingSelection.Code, appErrors.ErrMissingSelection.Status, "subject name is required")
	}

	var updated *models.Subject
	err := s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		subjects := snap.Subjects()
		idx := -1
		for i := range subjects {
			if subjects[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		if models.SubjectNameTaken(subjects, req.Name, id) {
			return appErrors.ErrDuplicateName
		}

		red := subjects[idx].RedThreshold
		yellow := subjects[idx].YellowThreshold
		if req.RedThreshold != nil {
			red = *req.RedThreshold
		}
		if req.YellowThreshold != nil {
			yellow = *req.YellowThreshold
		}
		if !models.ValidThresholds(red, yellow) {
			return appErrors.ErrInvalidThreshold
		}

		subjects[idx].Name = req.Name
		subjects[idx].RedThreshold = red
		subjects[idx].YellowThreshold = yellow
		copied := subjects[idx]
		updated = &copied
		snap.SetSubjects(subjects)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a subject and cascades to every schedule entry and
// attendance record referencing it, in one atomic update.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	err := s.docs.Update(ctx, func(snap *repository.Snapshot) error {
		subjects := snap.Subjects()
		remaining := make([]models.Subject, 0, len(subjects))
		found := false
		for _, subject := range subjects {
			if subject.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, subject)
		}
		if !found {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		snap.SetSubjects(remaining)

		schedule := snap.Schedule()
		cleaned := models.WeeklySchedule{}
		for day, entries := range schedule {
			kept := make([]models.ScheduleEntry, 0, len(entries))
			for _, entry := range entries {
				if entry.SubjectID != id {
					kept = append(kept, entry)
				}
			}
			cleaned[day] = kept
		}
		snap.SetSchedule(cleaned)

		records := snap.Attendance()
		keptRecords := make([]models.AttendanceRecord, 0, len(records))
		for _, record := range records {
			if record.SubjectID != id {
				keptRecords = append(keptRecords, record)
			}
		}
		snap.SetAttendance(keptRecords)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("subject deleted", zap.String("subject_id", id))
	return nil
}

func resolveThresholds(red, yellow *float64) (float64, float64, error) {
	r := models.DefaultRedThreshold
	y := models.DefaultYellowThreshold
	if red != nil {
		r = *red
	}
	if yellow != nil {
		y = *yellow
	}
	if !models.ValidThresholds(r, y) {
		return 0, 0, appErrors.ErrInvalidThreshold
	}
	return r, y, nil
}
