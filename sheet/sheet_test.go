package sheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const bacnetCSV = `Report: Failed points,,
Generated 2024-05-01,,
Object Designation,Object Description,[Units]
Site1.Hardware.PanelA.Point1,Zone temp,degF
,,
Site1.APOGEEZones.ZoneX,Zone humidity
Total: 2,,
End of report,,
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(bacnetCSV))
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 {
		t.Fatalf("Got %v rows, wanted 2", len(rows))
	}

	if rows[0]["Object Designation"] != "Site1.Hardware.PanelA.Point1" || rows[0]["[Units]"] != "degF" {
		t.Errorf("Got %v", rows[0])
	}

	// Short record, the missing cell is present but empty
	val, ok := rows[1]["[Units]"]
	if !ok || val != "" {
		t.Errorf("Got %q (%v), wanted empty cell", val, ok)
	}
}

func TestToRows(t *testing.T) {
	type testCase struct {
		tag      string
		records  [][]string
		expected int
		err      error
	}

	cases := []testCase{
		{"no header", [][]string{{"a"}, {"b"}}, 0, ErrNoHeader},
		{"only header", [][]string{{"a"}, {"b"}, {"Name"}}, 0, nil},
		{"only footer", [][]string{{"a"}, {"b"}, {"Name"}, {"x"}, {"y"}}, 0, nil},
		{"one row", [][]string{{"a"}, {"b"}, {"Name"}, {"p1"}, {"x"}, {"y"}}, 1, nil},
	}

	for _, c := range cases {
		t.Log(c.tag)
		rows, err := ToRows(c.records)
		if !errors.Is(err, c.err) {
			t.Errorf("Got %v, wanted %v", err, c.err)
		}
		if len(rows) != c.expected {
			t.Errorf("Got %v rows, wanted %v", len(rows), c.expected)
		}
	}
}

func TestReadXLSX(t *testing.T) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	records := [][]any{
		{"Apogee failed points"},
		{"Generated 2024-05-01"},
		{"Point System Name", "Panel Name", "Status"},
		{"AHU1.SAT", "P1", "*F*"},
		{"AHU1.RAT", "P2", "*F*"},
		{"Total", "2"},
		{"End of report"},
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := workbook.SetSheetRow(sheet, cell, &record); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		t.Fatal(err)
	}

	rows, err := Read(&buf, "Apogee_Failed.xlsx")
	if err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 || rows[1]["Panel Name"] != "P2" {
		t.Errorf("Got %v, wanted two rows ending with panel P2", rows)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	if _, err := Read(strings.NewReader(""), "report.pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Got %v, wanted %v", err, ErrUnsupportedFormat)
	}
}
