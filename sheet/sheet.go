// Package sheet reads BMS point-status exports into raw rows.
//
// Both vendors export the same layout: two preamble rows, the header row,
// the point rows and two footer rows with report totals.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"desigo/bms"
)

const HEADER_ROWS int = 2
const FOOTER_ROWS int = 2

var ErrNoHeader = errors.New("spreadsheet has no header row")
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Reads the export at path, choosing the reader from the file extension
func ReadFile(path string) ([]bms.RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, filepath.Base(path))
}

// Reads an export from r, filename is only used to detect the format
func Read(r io.Reader, filename string) ([]bms.RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// Reads the first worksheet of an Excel workbook
func ReadXLSX(r io.Reader) ([]bms.RawRow, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	records, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	return ToRows(records)
}

func ReadCSV(r io.Reader) ([]bms.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return ToRows(records)
}

// Strips preamble and footer rows and keys every remaining record by the header.
// Columns with an empty header and fully empty records are dropped.
func ToRows(records [][]string) ([]bms.RawRow, error) {
	if len(records) <= HEADER_ROWS {
		return nil, ErrNoHeader
	}

	header := records[HEADER_ROWS]
	body := records[HEADER_ROWS+1:]
	if len(body) > FOOTER_ROWS {
		body = body[:len(body)-FOOTER_ROWS]
	} else {
		body = nil
	}

	rows := make([]bms.RawRow, 0, len(body))
	for _, record := range body {
		if isBlank(record) {
			continue
		}

		row := make(bms.RawRow, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}

			// Trailing empty cells are not part of the record
			var val string
			if i < len(record) {
				val = strings.TrimSpace(record[i])
			}
			row[col] = val
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
