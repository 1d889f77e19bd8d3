// Package ingest turns uploaded spreadsheet files into normalized record
// sequences and feeds them into the workflow state.
package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rms-collector/backend/internal/models"
)

// Decoder converts a raw spreadsheet file into one record sequence per
// embedded sheet, in declaration order.
type Decoder interface {
	Decode(data []byte) ([]models.Sheet, error)
}

// XLSXDecoder decodes .xls/.xlsx workbooks with excelize. The first row of
// each sheet is taken as the header row; cells beyond the header width are
// dropped, trailing empty cells are padded.
type XLSXDecoder struct{}

// NewXLSXDecoder creates the default spreadsheet decoder.
func NewXLSXDecoder() *XLSXDecoder {
	return &XLSXDecoder{}
}

// Decode implements Decoder.
func (d *XLSXDecoder) Decode(data []byte) ([]models.Sheet, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	var sheets []models.Sheet
	for _, name := range book.GetSheetList() {
		rows, err := book.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, models.Sheet{Name: name, Records: rowsToRecords(rows)})
	}

	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return sheets, nil
}

// rowsToRecords maps each data row onto the header row. Rows with no
// non-empty cell are skipped, matching how spreadsheet tools emit sparse
// trailing rows.
func rowsToRecords(rows [][]string) []models.Record {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		rec := make(models.Record, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
