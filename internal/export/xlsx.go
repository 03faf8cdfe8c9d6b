package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"claimassist/internal/domain"
)

const (
	analysesSheet = "Analyses"
	summarySheet  = "Summary"
)

// WriteXLSX renders analyses into a workbook with an "Analyses" sheet and,
// when stats is non-nil, a "Summary" sheet.
func WriteXLSX(w io.Writer, analyses []domain.ClaimAnalysis, stats *domain.AnalysisStats) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", analysesSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeRow(f, analysesSheet, 1, columns); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(analysesSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	for i := range analyses {
		if err := writeRow(f, analysesSheet, i+2, analysisToRow(&analyses[i])); err != nil {
			return err
		}
	}
	if err := f.SetPanes(analysesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if stats != nil {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return fmt.Errorf("creating summary sheet: %w", err)
		}
		summary := [][]interface{}{
			{"Total", stats.Total},
			{"Approved", stats.Approved},
			{"Pending", stats.Pending},
			{"Under Review", stats.UnderReview},
			{"Total Amount", stats.TotalAmount},
		}
		for i, r := range summary {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			row := r
			if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}
