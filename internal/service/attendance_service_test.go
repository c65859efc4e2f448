package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
)

func newAttendanceServiceForTest(t *testing.T) *AttendanceService {
	t.Helper()
	docs := newDocsForTest(t)
	seedSubjects(t, docs, models.Subject{ID: "s1", Name: "Math", RedThreshold: 40, YellowThreshold: 75})
	return NewAttendanceService(docs, nil, nil)
}

func TestAttendanceServiceMarkDerivesUnits(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	cases := []struct {
		status   models.AttendanceStatus
		attended float64
		total    float64
	}{
		{models.StatusPresent, 2, 2},
		{models.StatusAbsent, 0, 2},
		{models.StatusCancelled, 0, 0},
	}
	dates := []string{"2024-01-10", "2024-01-11", "2024-01-12"}
	for i, tc := range cases {
		record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
			SubjectID: "s1", Date: dates[i], Status: tc.status, Hours: 2,
		})
		require.NoError(t, err)
		require.Equal(t, tc.attended, record.AttendedUnits)
		require.Equal(t, tc.total, record.TotalUnits)
		require.Equal(t, 2.0, record.Hours)
		require.False(t, record.IsExtra)
	}
}

func TestAttendanceServiceMarkDuplicateRejected(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1,
	})
	require.NoError(t, err)

	_, err = svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusAbsent, Hours: 1,
	})
	require.ErrorIs(t, err, appErrors.ErrDuplicateMark)

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.StatusPresent, history[0].Status)
}

func TestAttendanceServiceMarkUnknownSubject(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "ghost", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrMissingSelection.Code, appErr.Code)
}

func TestAttendanceServiceMarkBadDate(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "s1", Date: "2024/01/10", Status: models.StatusPresent, Hours: 1,
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceExtraAllowedAlongsideRegular(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 2,
	})
	require.NoError(t, err)

	extra, err := svc.AddExtra(context.Background(), AddExtraClassRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1,
	})
	require.NoError(t, err)
	require.True(t, extra.IsExtra)

	// Multiple extras per subject per day are fine too.
	_, err = svc.AddExtra(context.Background(), AddExtraClassRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusAbsent, Hours: 1,
	})
	require.NoError(t, err)

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 3)
}

func TestAttendanceServiceExtraCancelledRejected(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	_, err := svc.AddExtra(context.Background(), AddExtraClassRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusCancelled, Hours: 1,
	})
	require.Error(t, err)
}

func TestAttendanceServiceHistoryNewestFirst(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	for _, date := range []string{"2024-01-09", "2024-01-11", "2024-01-10"} {
		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
			SubjectID: "s1", Date: date, Status: models.StatusPresent, Hours: 1,
		})
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, "2024-01-11", history[0].Date)
	require.Equal(t, "2024-01-10", history[1].Date)
	require.Equal(t, "2024-01-09", history[2].Date)
	require.Equal(t, "Math", history[0].SubjectName)
}

func TestAttendanceServiceDelete(t *testing.T) {
	svc := newAttendanceServiceForTest(t)

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusAbsent, Hours: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), record.ID))

	// The day is unmarked again, so a fresh mark succeeds.
	_, err = svc.Mark(context.Background(), MarkAttendanceRequest{
		SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), record.ID)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
