package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"timeclock/internal/logger"
	"timeclock/internal/model"
	"timeclock/internal/timesheet"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ExportFile is a rendered report. URL is set when the file was uploaded.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
	URL         string
}

var eventHeader = []string{"Date", "User", "Event", "Time", "Note"}

var summaryHeader = []string{"User", "Email", "Category", "Days", "Total Hours", "Expected Hours", "Overtime Hours"}

type ExportService struct {
	reports  *ReportService
	uploader *DropboxUploader
}

// NewExportService builds an exporter. With a nil uploader files are always
// returned for direct download.
func NewExportService(reports *ReportService, uploader *DropboxUploader) *ExportService {
	return &ExportService{reports: reports, uploader: uploader}
}

func (s *ExportService) Export(ctx context.Context, f ReportFilter, format ExportFormat) (*ExportFile, error) {
	reports, err := s.reports.UserReports(ctx, f)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Name: fmt.Sprintf("report_%s_to_%s.%s", f.Start.Format(model.DateLayout), f.End.Format(model.DateLayout), format),
	}
	switch format {
	case FormatXLSX:
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Data, err = renderXLSX(reports)
	default:
		file.ContentType = "text/csv"
		file.Data, err = renderCSV(reports)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	if s.uploader != nil {
		url, err := s.uploader.UploadReport(ctx, file.Name, file.Data)
		if err != nil {
			logger.Warn("export.upload_failed", "file", file.Name, "err", err)
		} else {
			file.URL = url
		}
	}
	logger.Info("export.done", "file", file.Name, "users", len(reports), "bytes", len(file.Data), "uploaded", file.URL != "")
	return file, nil
}

// eventRows flattens reports into one row per recorded event.
func eventRows(reports []UserReport) [][]string {
	var rows [][]string
	for _, r := range reports {
		for _, ts := range r.Days {
			slots := []*model.TimeOfDay{ts.EntryTime, ts.LunchStart, ts.LunchEnd, ts.ExitTime}
			for i, kind := range timesheet.Events {
				if slots[i] == nil {
					continue
				}
				rows = append(rows, []string{
					ts.Date.Format(model.DateLayout),
					r.User.Email,
					string(kind),
					slots[i].String(),
					ts.Note,
				})
			}
		}
	}
	return rows
}

func renderCSV(reports []UserReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(eventHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(eventRows(reports)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(reports []UserReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const events, summary = "Events", "Summary"
	if err := f.SetSheetName("Sheet1", events); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summary); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, events, 1, toCells(eventHeader)); err != nil {
		return nil, err
	}
	for i, row := range eventRows(reports) {
		if err := writeRow(f, events, i+2, toCells(row)); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, summary, 1, toCells(summaryHeader)); err != nil {
		return nil, err
	}
	for i, r := range reports {
		row := []interface{}{
			r.User.Name, r.User.Email, string(r.User.Category), r.Summary.Days,
			r.Summary.TotalHours, r.Summary.ExpectedHours, r.Summary.OvertimeHours,
		}
		if err := writeRow(f, summary, i+2, row); err != nil {
			return nil, err
		}
	}
	for _, sheet := range []string{events, summary} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
