package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/attendance-tracker/internal/models"
	appErrors "github.com/noah-isme/attendance-tracker/pkg/errors"
	"github.com/noah-isme/attendance-tracker/pkg/storage"
)

func TestBuildReportRowsDateWindow(t *testing.T) {
	subjects := []models.Subject{{ID: "s1", Name: "Math"}}
	records := []models.AttendanceRecord{
		{ID: "r1", SubjectID: "s1", Date: "2024-01-05", Status: models.StatusPresent, Hours: 1},
		{ID: "r2", SubjectID: "s1", Date: "2024-01-10", Status: models.StatusAbsent, Hours: 2},
		{ID: "r3", SubjectID: "s1", Date: "2024-01-13", Status: models.StatusPresent, Hours: 1},
	}

	rows := BuildReportRows(subjects, records, models.ReportFilter{
		StartDate: "2024-01-06", EndDate: "2024-01-12",
	})
	require.Len(t, rows, 1)
	require.Equal(t, "2024-01-10", rows[0].Date)
	require.Equal(t, "Math", rows[0].Subject)
	require.Equal(t, "Absent", rows[0].Status)
	require.Equal(t, models.ReportTypeRegular, rows[0].Type)
}

func TestBuildReportRowsStableSortAndTypes(t *testing.T) {
	subjects := []models.Subject{{ID: "s1", Name: "Math"}}
	records := []models.AttendanceRecord{
		{ID: "r1", SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 2},
		{ID: "r2", SubjectID: "s1", Date: "2024-01-09", Status: models.StatusAbsent, Hours: 1},
		{ID: "r3", SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1, IsExtra: true},
	}

	rows := BuildReportRows(subjects, records, models.ReportFilter{})
	require.Len(t, rows, 3)
	require.Equal(t, "2024-01-09", rows[0].Date)
	// Same-date rows keep insertion order: the regular mark precedes the extra.
	require.Equal(t, models.ReportTypeRegular, rows[1].Type)
	require.Equal(t, models.ReportTypeExtra, rows[2].Type)
}

func TestBuildReportRowsUnknownSubject(t *testing.T) {
	records := []models.AttendanceRecord{
		{ID: "r1", SubjectID: "ghost", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1},
	}

	rows := BuildReportRows(nil, records, models.ReportFilter{})
	require.Len(t, rows, 1)
	require.Equal(t, models.UnknownSubjectName, rows[0].Subject)
}

func TestBuildReportRowsSubjectFilter(t *testing.T) {
	subjects := []models.Subject{{ID: "s1", Name: "Math"}, {ID: "s2", Name: "Physics"}}
	records := []models.AttendanceRecord{
		{ID: "r1", SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1},
		{ID: "r2", SubjectID: "s2", Date: "2024-01-10", Status: models.StatusPresent, Hours: 1},
	}

	rows := BuildReportRows(subjects, records, models.ReportFilter{SubjectID: "s2"})
	require.Len(t, rows, 1)
	require.Equal(t, "Physics", rows[0].Subject)
}

func newReportServiceForTest(t *testing.T) (*ReportService, *storage.LocalStorage) {
	t.Helper()
	docs := newDocsForTest(t)
	seedSubjects(t, docs, models.Subject{ID: "s1", Name: "Math", RedThreshold: 40, YellowThreshold: 75})
	seedAttendance(t, docs,
		models.AttendanceRecord{ID: "r1", SubjectID: "s1", Date: "2024-01-10", Status: models.StatusPresent, Hours: 2, AttendedUnits: 2, TotalUnits: 2},
		models.AttendanceRecord{ID: "r2", SubjectID: "s1", Date: "2024-01-11", Status: models.StatusCancelled, Hours: 1.5},
	)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewReportService(docs, store, nil, nil, nil, nil), store
}

func TestReportServiceExportCSV(t *testing.T) {
	svc, store := newReportServiceForTest(t)

	result, err := svc.Export(context.Background(), ExportReportRequest{
		StartDate: "2024-01-01", EndDate: "2024-01-31",
	})
	require.NoError(t, err)
	require.Equal(t, "attendance_report_All_Subjects_2024-01-01_to_2024-01-31.csv", result.Filename)
	require.Equal(t, "text/csv; charset=utf-8", result.ContentType)

	want := "Date,Subject,Hours,Type,Status\n" +
		"2024-01-10,\"Math\",2,Regular,Present\n" +
		"2024-01-11,\"Math\",1.5,Regular,Cancelled"
	require.Equal(t, want, string(result.Payload))

	info, err := os.Stat(store.Path(result.Filename))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestReportServiceExportPDF(t *testing.T) {
	svc, _ := newReportServiceForTest(t)

	result, err := svc.Export(context.Background(), ExportReportRequest{
		StartDate: "2024-01-01", EndDate: "2024-01-31", Format: models.ReportFormatPDF,
	})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", result.ContentType)
	require.NotEmpty(t, result.Payload)
}

func TestReportServiceExportSubjectScopeInFilename(t *testing.T) {
	svc, _ := newReportServiceForTest(t)

	result, err := svc.Export(context.Background(), ExportReportRequest{
		SubjectID: "s1", StartDate: "2024-01-01", EndDate: "2024-01-31",
	})
	require.NoError(t, err)
	require.Equal(t, "attendance_report_Math_2024-01-01_to_2024-01-31.csv", result.Filename)
}

func TestReportServiceExportMissingDates(t *testing.T) {
	svc, _ := newReportServiceForTest(t)

	_, err := svc.Export(context.Background(), ExportReportRequest{StartDate: "2024-01-01"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrEmptyExport.Code, appErr.Code)
}

func TestReportServiceExportInvalidWindow(t *testing.T) {
	svc, _ := newReportServiceForTest(t)

	_, err := svc.Export(context.Background(), ExportReportRequest{
		StartDate: "2024-02-01", EndDate: "2024-01-01",
	})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServiceExportNoMatches(t *testing.T) {
	svc, _ := newReportServiceForTest(t)

	_, err := svc.Export(context.Background(), ExportReportRequest{
		StartDate: "2030-01-01", EndDate: "2030-01-31",
	})
	require.ErrorIs(t, err, appErrors.ErrEmptyExport)
}

func TestReportServiceRows(t *testing.T) {
	svc, _ := newReportServiceForTest(t)

	rows, err := svc.Rows(context.Background(), models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
