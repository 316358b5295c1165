package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"capstone-calendar-backend/cmd/capstone-calendar/parser"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const MaxImportRows = 1000

// WorkbookImporter reconciles every data row of an uploaded .xlsx sheet.
// Nothing is pushed to the calendar.
type WorkbookImporter struct {
	parser     *parser.RowParser
	reconciler *Reconciler
	logger     *zap.Logger
}

func NewWorkbookImporter(rowParser *parser.RowParser, reconciler *Reconciler, logger *zap.Logger) *WorkbookImporter {
	return &WorkbookImporter{
		parser:     rowParser,
		reconciler: reconciler,
		logger:     logger,
	}
}

// ReadWorkbookRows reads tabName, or the first sheet when the workbook has
// no such tab. Row 1 is the header. Returned rows are keyed by column letter
// and indexed by their 1-based sheet row number; blank rows map to nil.
func ReadWorkbookRows(r io.Reader, tabName string) (map[int]parser.Row, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, apperr.Validation("file is not a readable .xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, apperr.Validation("workbook has no sheets")
	}
	sheet := sheets[0]
	if slices.Contains(sheets, tabName) {
		sheet = tabName
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return map[int]parser.Row{}, 0, nil
	}

	data := rows[1:]
	if len(data) > MaxImportRows {
		return nil, 0, apperr.Validation(fmt.Sprintf("sheet has %d data rows, the limit is %d", len(data), MaxImportRows))
	}

	out := make(map[int]parser.Row, len(data))
	for i, cells := range data {
		rowNumber := i + 2
		row := parser.Row{}
		for j, cell := range cells {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			column, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return nil, 0, err
			}
			row[column] = cell
		}
		if len(row) == 0 {
			out[rowNumber] = nil
			continue
		}
		out[rowNumber] = row
	}

	return out, len(data) + 1, nil
}

func (w *WorkbookImporter) ImportWorkbook(ctx context.Context, userID, sheetID, tabName string, r io.Reader) (*model.ImportReport, error) {
	if sheetID == "" || tabName == "" {
		return nil, apperr.Validation("sheetId and tabName are required")
	}

	rows, lastRow, err := ReadWorkbookRows(r, tabName)
	if err != nil {
		return nil, err
	}

	report := &model.ImportReport{
		SheetID:  sheetID,
		TabName:  tabName,
		Imported: []model.ImportedRow{},
	}

	for rowNumber := 2; rowNumber <= lastRow; rowNumber++ {
		row := rows[rowNumber]
		if row == nil {
			report.SkippedRows = append(report.SkippedRows, rowNumber)
			continue
		}

		parsed := w.parser.Parse(row)
		coord := model.SheetCoordinate{SheetID: sheetID, TabName: tabName, RowNumber: rowNumber}

		project, events, err := w.reconciler.UpsertCapstoneProject(ctx, userID, coord, parsed)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}

		report.Imported = append(report.Imported, model.ImportedRow{
			RowNumber:  rowNumber,
			ProjectID:  project.ID,
			EventCount: len(events),
		})
	}

	w.logger.Info("workbook imported",
		zap.String("user_id", userID),
		zap.String("sheet_id", sheetID),
		zap.String("tab_name", tabName),
		zap.Int("imported", len(report.Imported)),
		zap.Int("skipped", len(report.SkippedRows)),
	)

	return report, nil
}
