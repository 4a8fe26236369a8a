package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"

	"desigo/bms"
)

// CSV record of a sample summary
type SummaryRow struct {
	Timestamp   string `csv:"timestamp"`
	SiteName    string `csv:"site_name"`
	SensorType  string `csv:"sensor_type"`
	ReportType  string `csv:"report_type"`
	TotalCount  int    `csv:"total_count"`
	TotalPanels int    `csv:"total_panels"`
}

func WriteSummaryCSV(w io.Writer, entries []Entry) error {
	rows := make([]*SummaryRow, len(entries))
	for i, e := range entries {
		rows[i] = &SummaryRow{
			Timestamp:   e.Timestamp,
			SiteName:    e.SiteName,
			SensorType:  e.SensorType.String(),
			ReportType:  e.ReportType.String(),
			TotalCount:  e.TotalCount,
			TotalPanels: e.TotalPanels,
		}
	}
	return gocsv.Marshal(rows, w)
}

// Panel columns depend on the data, so the wide table is written by hand
func WritePanelCSV(w io.Writer, table *PanelTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(append([]string{"timestamp"}, table.Panels...)); err != nil {
		return err
	}

	for i, t := range table.Times {
		record := make([]string, 0, len(table.Panels)+1)
		record = append(record, bms.FormatSampleTime(t))
		for _, count := range table.Counts[i] {
			record = append(record, strconv.Itoa(count))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func PrintTotals(w io.Writer, rows []TotalsRow, label string) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Timestamp\tTotal %s\tPanels with %s\t\n", label, label)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n",
			bms.FormatSampleTime(row.Time),
			humanize.Comma(int64(row.TotalCount)),
			humanize.Comma(int64(row.TotalPanels)),
		)
	}
	return tw.Flush()
}

func PrintPanels(w io.Writer, table *PanelTable) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Timestamp\t%s\t\n", strings.Join(table.Panels, "\t"))
	for i, t := range table.Times {
		cells := make([]string, len(table.Panels))
		for j, count := range table.Counts[i] {
			cells[j] = humanize.Comma(int64(count))
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", bms.FormatSampleTime(t), strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func PrintOverview(w io.Writer, rows []OverviewRow) error {
	tw := newTabWriter(w)

	fmt.Fprint(tw, "Timestamp\t")
	for _, r := range bms.REPORT_TYPES {
		fmt.Fprintf(tw, "Total %s\t", r.Label())
	}
	fmt.Fprintln(tw)

	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t", bms.FormatSampleTime(row.Time))
		for _, r := range bms.REPORT_TYPES {
			fmt.Fprintf(tw, "%s\t", humanize.Comma(int64(row.Counts[r])))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func PrintMetric(w io.Writer, label string, m Metric) {
	fmt.Fprintf(w, "%s Month over Month: %s (%+d)\n", label, humanize.Comma(int64(m.Current)), m.Delta)
	fmt.Fprintf(w, "%s Average: %s (%+d)\n", label, humanize.Comma(int64(m.Average)), m.AverageDelta)
	fmt.Fprintf(w, "%s Average Delta: %+d\n", label, m.MeanChange)
}

func PrintPoints(w io.Writer, points []bms.Point) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Timestamp\tSensor Type\tPanel\tName\tValue\tStatus\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", p.Timestamp, p.SystemType, p.PanelName, p.Name, p.CurrentValue, p.Status)
	}
	return tw.Flush()
}

// Latest sample time rendered relative to now, e.g. "3 weeks ago"
func LastSampled(entries []Entry) string {
	if len(entries) == 0 {
		return "never"
	}
	return humanize.RelTime(entries[len(entries)-1].Time, time.Now(), "ago", "from now")
}
