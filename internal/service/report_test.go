package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"timeclock/internal/model"
	"timeclock/internal/store"
	"timeclock/internal/testutil"
	"timeclock/internal/timesheet"
)

type reportFixture struct {
	st      *store.Store
	reports *ReportService
	ana     *model.User
	bia     *model.User
}

// newReportFixture records Ana (worker) for two days and Bia (intern) for one.
func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	st := testutil.NewTestStore(t)
	clock := &fakeClock{}
	ts := NewTimesheetService(st.Timesheets, clock, timesheet.DefaultSchedule())

	ana := testutil.SeedUser(t, st, testutil.WithName("Ana"), testutil.WithEmail("ana@x.io"))
	bia := testutil.SeedUser(t, st, testutil.WithName("Bia"), testutil.WithEmail("bia@x.io"), testutil.WithCategory(model.CategoryIntern))
	testutil.SeedUser(t, st, testutil.WithName("Caio"), testutil.Inactive())

	register(t, ts, clock, ana, timesheet.EventEntry, monday(9, 0))
	register(t, ts, clock, ana, timesheet.EventLunchStart, monday(12, 0))
	register(t, ts, clock, ana, timesheet.EventLunchEnd, monday(13, 0))
	register(t, ts, clock, ana, timesheet.EventExit, monday(19, 0))
	register(t, ts, clock, ana, timesheet.EventEntry, monday(9, 0).AddDate(0, 0, 1))
	register(t, ts, clock, ana, timesheet.EventExit, monday(15, 0).AddDate(0, 0, 1))
	register(t, ts, clock, bia, timesheet.EventEntry, monday(8, 0).AddDate(0, 0, 1))

	clock.Set(monday(10, 0).AddDate(0, 0, 1))
	return &reportFixture{st: st, reports: NewReportService(st.Users, st.Timesheets, clock, timesheet.DefaultSchedule()), ana: ana, bia: bia}
}

func TestReportService_Dashboard(t *testing.T) {
	f := newReportFixture(t)

	d, err := f.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d.Date)
	assert.Equal(t, 3, d.TotalUsers)
	assert.Equal(t, 2, d.ActiveUsers)
	assert.Equal(t, 2, d.ClockedInToday)
	assert.Equal(t, 2, d.ByCategory[model.CategoryWorker])
	assert.Equal(t, 1, d.ByCategory[model.CategoryIntern])
	require.Len(t, d.Today, 2)
	assert.Equal(t, timesheet.StateComplete, d.Today[0].State)
	assert.Equal(t, timesheet.StateWorking, d.Today[1].State)
}

func TestReportService_UserReports(t *testing.T) {
	f := newReportFixture(t)
	start, end := f.reports.DefaultRange()
	assert.Equal(t, "2024-03-01", start.Format(model.DateLayout))
	assert.Equal(t, "2024-03-05", end.Format(model.DateLayout))

	reports, err := f.reports.UserReports(ctx, ReportFilter{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	ana := reports[0]
	assert.Equal(t, "Ana", ana.User.Name)
	assert.Len(t, ana.Days, 2)
	assert.InDelta(t, 15.0, ana.Summary.TotalHours, 1e-9)
	assert.InDelta(t, 16.0, ana.Summary.ExpectedHours, 1e-9)
	assert.Equal(t, 0.0, ana.Summary.OvertimeHours)

	bia := reports[1]
	assert.Equal(t, 6.0, bia.StandardHours)
	assert.Equal(t, 0.0, bia.Summary.TotalHours)

	only, err := f.reports.UserReports(ctx, ReportFilter{Start: start, End: end, UserID: f.bia.ID})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, f.bia.ID, only[0].User.ID)

	_, err = f.reports.UserReports(ctx, ReportFilter{Start: end, End: start})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExportService_CSV(t *testing.T) {
	f := newReportFixture(t)
	exp := NewExportService(f.reports, nil)
	start, end := monday(0, 0), monday(0, 0).AddDate(0, 0, 6)

	file, err := exp.Export(ctx, ReportFilter{Start: start, End: end}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "report_2024-03-04_to_2024-03-10.csv", file.Name)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Empty(t, file.URL)

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, eventHeader, rows[0])
	assert.Equal(t, []string{"2024-03-04", "ana@x.io", "entry", "09:00:00", ""}, rows[1])
	assert.Equal(t, []string{"2024-03-05", "bia@x.io", "entry", "08:00:00", ""}, rows[7])
}

func TestExportService_XLSX(t *testing.T) {
	f := newReportFixture(t)
	exp := NewExportService(f.reports, nil)

	file, err := exp.Export(ctx, ReportFilter{Start: monday(0, 0), End: monday(0, 0).AddDate(0, 0, 1)}, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "report_2024-03-04_to_2024-03-05.xlsx", file.Name)

	book, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer book.Close()

	events, err := book.GetRows("Events")
	require.NoError(t, err)
	assert.Len(t, events, 8)
	assert.Equal(t, eventHeader, events[0])

	summary, err := book.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Ana", "ana@x.io", "worker", "2", "15", "16", "0"}, summary[1])
}

func TestParseExportFormat(t *testing.T) {
	got, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, got)
	got, err = ParseExportFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, got)
	_, err = ParseExportFormat("pdf")
	assert.Error(t, err)
}
