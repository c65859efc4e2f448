package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/attendance-tracker/internal/models"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	"github.com/noah-isme/attendance-tracker/internal/store"
)

func newDocsForTest(t *testing.T) *repository.Documents {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return repository.New(st, nil, zap.NewNop())
}

func seedSubjects(t *testing.T, docs *repository.Documents, subjects ...models.Subject) {
	t.Helper()
	err := docs.Update(context.Background(), func(snap *repository.Snapshot) error {
		snap.SetSubjects(append(snap.Subjects(), subjects...))
		return nil
	})
	require.NoError(t, err)
}

func seedSchedule(t *testing.T, docs *repository.Documents, day models.Weekday, entries ...models.ScheduleEntry) {
	t.Helper()
	err := docs.Update(context.Background(), func(snap *repository.Snapshot) error {
		schedule := snap.Schedule()
		schedule[day] = append(schedule[day], entries...)
		snap.SetSchedule(schedule)
		return nil
	})
	require.NoError(t, err)
}

func seedAttendance(t *testing.T, docs *repository.Documents, records ...models.AttendanceRecord) {
	t.Helper()
	err := docs.Update(context.Background(), func(snap *repository.Snapshot) error {
		snap.SetAttendance(append(snap.Attendance(), records...))
		return nil
	})
	require.NoError(t, err)
}

func float64Ptr(v float64) *float64 { return &v }
