// backend/src/services/export.go
package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/security/validation"
)

const exportSheetName = "Analysis"

// ExportColumns returns the union of the records' keys in first-appearance
// order. Historical aggregates do not share the upload's schema.
func ExportColumns(records []*models.DerivedRecord) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

func exportRows(records []*models.DerivedRecord, columns []string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = validation.SanitizeForFormulaInjection(rec.Value(col))
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the derived records with a header row.
func WriteCSV(w io.Writer, records []*models.DerivedRecord) error {
	columns := ExportColumns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	if err := cw.WriteAll(exportRows(records, columns)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX writes the derived records to a single-sheet workbook.
func WriteXLSX(w io.Writer, records []*models.DerivedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return err
	}

	columns := ExportColumns(records)
	if err := writeSheetRow(f, 1, columns); err != nil {
		return err
	}
	for i, row := range exportRows(records, columns) {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(exportSheetName, cell, &cells)
}

func (s *analysisServiceImpl) ExportRun(ctx context.Context, id, format string, w io.Writer) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "csv", "":
		err = WriteCSV(w, run.Result.Records)
	case "xlsx":
		err = WriteXLSX(w, run.Result.Records)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedExport, format)
	}
	if err != nil {
		return fmt.Errorf("error exporting analysis run %s: %w", id, err)
	}
	logger.FromContext(ctx).Info("Analysis run exported", "runID", id, "format", format, "records", len(run.Result.Records))
	return nil
}
