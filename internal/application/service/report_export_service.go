package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReportExportService renders range reports as spreadsheet downloads
type ReportExportService struct {
	reports *ReportService
}

// NewReportExportService creates a new report export service
func NewReportExportService(reports *ReportService) *ReportExportService {
	return &ReportExportService{reports: reports}
}

// ExportRangeXLSX builds an .xlsx workbook for the range: a summary sheet
// comparing the window against the previous one, and a per-day sheet.
// Returns the file bytes and a suggested filename.
func (s *ReportExportService) ExportRangeXLSX(ctx context.Context, input *RangeStatsInput) ([]byte, string, error) {
	comparison, err := s.reports.RangeStats(ctx, input)
	if err != nil {
		return nil, "", err
	}

	daily, err := s.reports.DailyBreakdown(ctx, input)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Style: 2, Color: "000000"},
		},
	})
	if err != nil {
		return nil, "", err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, "", err
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 2,
		Border: []excelize.Border{
			{Type: "top", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return nil, "", err
	}

	if err := s.writeSummarySheet(f, comparison, headerStyle, moneyStyle); err != nil {
		return nil, "", err
	}
	if err := s.writeDailySheet(f, daily, headerStyle, moneyStyle, totalStyle); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("net-report_%s_%s.xlsx", comparison.Current.From, comparison.Current.To)
	return buf.Bytes(), filename, nil
}

func (s *ReportExportService) writeSummarySheet(f *excelize.File, c *RangeComparison, headerStyle, moneyStyle int) error {
	const sheet = "Summary"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"", "Current period", "Previous period"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)

	rows := []struct {
		label    string
		current  interface{}
		previous interface{}
		money    bool
	}{
		{"From", c.Current.From, c.Previous.From, false},
		{"To", c.Current.To, c.Previous.To, false},
		{"Net total", c.Current.NetTotal, c.Previous.NetTotal, true},
		{"Finished jobs", c.Current.JobCount, c.Previous.JobCount, false},
		{"Average per job", c.Current.AvgPerJob, c.Previous.AvgPerJob, true},
		{"Labor", c.Current.Labor, c.Previous.Labor, true},
		{"Parts", c.Current.Parts, c.Previous.Parts, true},
		{"Other", c.Current.Other, c.Previous.Other, true},
	}

	for i, row := range rows {
		rowNum := i + 2
		labelCell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		currentCell, err := excelize.CoordinatesToCellName(2, rowNum)
		if err != nil {
			return err
		}
		previousCell, err := excelize.CoordinatesToCellName(3, rowNum)
		if err != nil {
			return err
		}

		f.SetCellValue(sheet, labelCell, row.label)
		f.SetCellValue(sheet, currentCell, row.current)
		f.SetCellValue(sheet, previousCell, row.previous)
		if row.money {
			f.SetCellStyle(sheet, currentCell, previousCell, moneyStyle)
		}
	}

	deltaRow := len(rows) + 2
	labelCell, err := excelize.CoordinatesToCellName(1, deltaRow)
	if err != nil {
		return err
	}
	valueCell, err := excelize.CoordinatesToCellName(2, deltaRow)
	if err != nil {
		return err
	}
	f.SetCellValue(sheet, labelCell, "Change vs previous")
	if c.DeltaPct != nil {
		f.SetCellValue(sheet, valueCell, fmt.Sprintf("%+.1f%%", *c.DeltaPct))
	} else {
		f.SetCellValue(sheet, valueCell, "n/a")
	}

	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "C", 18)

	return nil
}

func (s *ReportExportService) writeDailySheet(f *excelize.File, daily []DailyBucket, headerStyle, moneyStyle, totalStyle int) error {
	const sheet = "Daily"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Date", "Net total", "Finished jobs"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)

	var totalNet float64
	var totalJobs int64
	for i, bucket := range daily {
		rowNum := i + 2
		dateCell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		netCell, err := excelize.CoordinatesToCellName(2, rowNum)
		if err != nil {
			return err
		}
		jobsCell, err := excelize.CoordinatesToCellName(3, rowNum)
		if err != nil {
			return err
		}

		f.SetCellValue(sheet, dateCell, bucket.Date)
		f.SetCellValue(sheet, netCell, bucket.NetTotal)
		f.SetCellValue(sheet, jobsCell, bucket.JobCount)
		f.SetCellStyle(sheet, netCell, netCell, moneyStyle)

		totalNet += bucket.NetTotal
		totalJobs += bucket.JobCount
	}

	totalRow := len(daily) + 2
	labelCell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	netCell, err := excelize.CoordinatesToCellName(2, totalRow)
	if err != nil {
		return err
	}
	jobsCell, err := excelize.CoordinatesToCellName(3, totalRow)
	if err != nil {
		return err
	}
	f.SetCellValue(sheet, labelCell, "Total")
	f.SetCellValue(sheet, netCell, totalNet)
	f.SetCellValue(sheet, jobsCell, totalJobs)
	f.SetCellStyle(sheet, labelCell, jobsCell, totalStyle)

	// Keep the header row visible while scrolling long ranges
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	f.SetColWidth(sheet, "A", "C", 16)

	return nil
}
