package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

// ComputeSubjectStats aggregates every record of one subject, regular
// and extra alike. Cancelled records pass the filter but contribute
// zero attended and zero total units, so a subject with only cancelled
// classes reports 0%, never a division error.
func ComputeSubjectStats(subject models.Subject, records []models.AttendanceRecord) models.SubjectStats {
	stats := models.SubjectStats{
		SubjectID:   subject.ID,
		SubjectName: subject.Name,
	}

	for _, r := range records {
		if r.SubjectID != subject.ID {
			continue
		}
		stats.TotalUnits += r.TotalUnits
		stats.AttendedUnits += r.AttendedUnits
		if r.Status == models.StatusCancelled {
			stats.CancelledUnits += r.Hours
		}
	}

	if stats.TotalUnits > 0 {
		stats.Percent = stats.AttendedUnits / stats.TotalUnits * 100
	}
	stats.Level = models.ClassifyPercent(stats.Percent, subject.RedThreshold, subject.YellowThreshold)
	return stats
}

// ComputeGlobalStats aggregates units across all subjects. Records whose
// subject no longer exists are excluded here as well, so the global sum
// always equals the sum of the per-subject aggregates.
func ComputeGlobalStats(subjects []models.Subject, records []models.AttendanceRecord) models.GlobalStats {
	known := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		known[s.ID] = struct{}{}
	}

	stats := models.GlobalStats{TotalSubjects: len(subjects)}
	for _, r := range records {
		if _, ok := known[r.SubjectID]; !ok {
			continue
		}
		stats.TotalUnits += r.TotalUnits
		stats.AttendedUnits += r.AttendedUnits
	}

	if stats.TotalUnits > 0 {
		stats.OverallPercent = stats.AttendedUnits / stats.TotalUnits * 100
	}
	return stats
}

// StatsService serves dashboard aggregates computed from stored state.
type StatsService struct {
	docs   *repository.Documents
	logger *zap.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(docs *repository.Documents, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{docs: docs, logger: logger}
}

// Dashboard returns per-subject statistics in subject order.
func (s *StatsService) Dashboard(ctx context.Context) ([]models.SubjectStats, error) {
	var result []models.SubjectStats
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		subjects := snap.Subjects()
		records := snap.Attendance()
		result = make([]models.SubjectStats, 0, len(subjects))
		for _, subject := range subjects {
			result = append(result, ComputeSubjectStats(subject, records))
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard")
	}
	return result, nil
}

// Summary returns the global aggregate.
func (s *StatsService) Summary(ctx context.Context) (*models.GlobalStats, error) {
	var result models.GlobalStats
	err := s.docs.View(ctx, func(snap *repository.Snapshot) error {
		result = ComputeGlobalStats(snap.Subjects(), snap.Attendance())
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute summary")
	}
	return &result, nil
}
