// Package report builds spreadsheet exports of recent fines.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aanand-mishra/tool-lending-admin/internal/daterange"
	"github.com/aanand-mishra/tool-lending-admin/internal/money"
	"github.com/aanand-mishra/tool-lending-admin/internal/types"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	sheet       = "Fines"
)

var headers = []string{"Date", "User", "Config", "Description", "Status", "Amount"}

// FinesXLSX returns a workbook (as bytes) listing fines in r, followed by
// a total row.
func FinesXLSX(fines []types.Fine, r daterange.Range, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", "Fines "+r.String()); err != nil {
		return nil, err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 3
	amounts := make([]float64, 0, len(fines))
	for _, fine := range fines {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, fine.FineDate.String())
		write(2, fine.UserName)
		write(3, fine.ConfigName)
		write(4, fine.Description)
		write(5, fine.Status)
		write(6, money.Round(fine.Amount))
		amounts = append(amounts, fine.Amount)
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(5, row)
	totalCell, _ := excelize.CoordinatesToCellName(6, row)
	_ = f.SetCellValue(sheet, totalLabel, "Total")
	_ = f.SetCellValue(sheet, totalCell, money.Sum(amounts...))

	if style, err := f.NewStyle(&excelize.Style{NumFmt: 4}); err == nil {
		first, _ := excelize.CoordinatesToCellName(6, 3)
		_ = f.SetCellStyle(sheet, first, totalCell, style)
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "C", 26)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	_ = f.SetColWidth(sheet, "E", "F", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("fines export built",
		slog.String("range", r.String()),
		slog.Int("rows", len(fines)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	return buf.Bytes(), nil
}

// FileName is the download name for r.
func FileName(r daterange.Range) string {
	return fmt.Sprintf("fines_%s_%s.xlsx", r.From.Format(types.DateLayout), r.To.Format(types.DateLayout))
}
