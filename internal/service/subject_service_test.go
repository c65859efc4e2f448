package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

func TestSubjectServiceCreateDefaults(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "  Math  "})
	require.NoError(t, err)
	require.NotEmpty(t, subject.ID)
	require.Equal(t, "Math", subject.Name)
	require.Equal(t, models.DefaultRedThreshold, subject.RedThreshold)
	require.Equal(t, models.DefaultYellowThreshold, subject.YellowThreshold)
}

func TestSubjectServiceCreateDuplicateName(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateSubjectRequest{Name: " math "})
	require.ErrorIs(t, err, appErrors.ErrDuplicateName)

	subjects, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
}

func TestSubjectServiceCreateEmptyName(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "   "})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrMissingSelection.Code, appErr.Code)
}

func TestSubjectServiceCreateInvalidThresholds(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	cases := []struct {
		name   string
		red    *float64
		yellow *float64
	}{
		{"red above yellow", float64Ptr(80), float64Ptr(60)},
		{"red equals yellow", float64Ptr(50), float64Ptr(50)},
		{"negative red", float64Ptr(-1), float64Ptr(75)},
		{"yellow above hundred", float64Ptr(40), float64Ptr(101)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateSubjectRequest{
				Name: "Chemistry", RedThreshold: tc.red, YellowThreshold: tc.yellow,
			})
			require.ErrorIs(t, err, appErrors.ErrInvalidThreshold)
		})
	}
}

func TestSubjectServiceUpdateRenameToSelf(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), subject.ID, UpdateSubjectRequest{Name: "Math"})
	require.NoError(t, err)
	require.Equal(t, "Math", updated.Name)
}

func TestSubjectServiceUpdateRenameCollision(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)
	physics, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Physics"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), physics.ID, UpdateSubjectRequest{Name: "MATH"})
	require.ErrorIs(t, err, appErrors.ErrDuplicateName)
}

func TestSubjectServiceUpdatePartialThresholds(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), subject.ID, UpdateSubjectRequest{
		Name: "Math", RedThreshold: float64Ptr(50),
	})
	require.NoError(t, err)
	require.Equal(t, 50.0, updated.RedThreshold)
	require.Equal(t, models.DefaultYellowThreshold, updated.YellowThreshold)

	// A partial override that breaks the ordering is rejected.
	_, err = svc.Update(context.Background(), subject.ID, UpdateSubjectRequest{
		Name: "Math", RedThreshold: float64Ptr(90),
	})
	require.ErrorIs(t, err, appErrors.ErrInvalidThreshold)
}

func TestSubjectServiceUpdateNotFound(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateSubjectRequest{Name: "Math"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSubjectServiceDeleteCascades(t *testing.T) {
	docs := newDocsForTest(t)
	svc := NewSubjectService(docs, nil, nil)
	scheduleSvc := NewScheduleService(docs, nil, nil)
	attendanceSvc := NewAttendanceService(docs, nil, nil)

	math, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)
	physics, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Physics"})
	require.NoError(t, err)

	_, err = scheduleSvc.AddEntry(context.Background(), models.Monday, AddScheduleEntryRequest{SubjectID: math.ID, Hours: 1})
	require.NoError(t, err)
	kept, err := scheduleSvc.AddEntry(context.Background(), models.Monday, AddScheduleEntryRequest{SubjectID: physics.ID, Hours: 2})
	require.NoError(t, err)

	_, err = attendanceSvc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: math.ID, Date: "2024-01-10", Status: models.StatusPresent, Hours: 1,
	})
	require.NoError(t, err)
	_, err = attendanceSvc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: physics.ID, Date: "2024-01-10", Status: models.StatusAbsent, Hours: 2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), math.ID))

	subjects, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, physics.ID, subjects[0].ID)

	week, err := scheduleSvc.Week(context.Background())
	require.NoError(t, err)
	require.Len(t, week[0].Entries, 1)
	require.Equal(t, kept.ID, week[0].Entries[0].ID)

	history, err := attendanceSvc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, physics.ID, history[0].SubjectID)
}

func TestSubjectServiceDeleteNotFound(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	err := svc.Delete(context.Background(), "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSubjectServiceGet(t *testing.T) {
	svc := NewSubjectService(newDocsForTest(t), nil, nil)

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	found, err := svc.Get(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Equal(t, subject.Name, found.Name)

	_, err = svc.Get(context.Background(), "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
