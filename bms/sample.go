package bms

import (
	"fmt"
	"time"
)

// A site the samples refer to by name
type Site struct {
	ID   int32  `json:"-" db:"id" csv:"id"`
	Name string `json:"name" db:"name" csv:"name"`
}

// Aggregate of one uploaded report for one site and sample time
type Sample struct {
	Timestamp   string         `json:"timestamp"`
	SensorType  SystemType     `json:"sensor_type"`
	SiteName    string         `json:"site_name"`
	ReportType  ReportType     `json:"report_type"`
	TotalCount  int            `json:"total_count"`
	PanelCounts map[string]int `json:"panel_counts"`
	TotalPanels int            `json:"total_panels"`
	Points      []Point        `json:"points,omitempty"`
}

// Parameters shared by every row of a report
type Context struct {
	System     SystemType
	Report     ReportType
	Site       string
	SampleTime time.Time
}

// Formats the sample time as an ISO-8601 string.
// Times at midnight are considered dates, like the ones picked at upload.
func FormatSampleTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format("2006-01-02T15:04:05")
}

// Parses timestamps produced by FormatSampleTime (and RFC3339 for good measure)
func ParseSampleTime(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, "2006-01-02T15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid sample timestamp %q", s)
}

// Folds all the rows of a report, in source order, into a single Sample.
// Fails on the first row that cannot be normalized, no partial sample is returned.
func Aggregate(rows []RawRow, ctx Context) (*Sample, error) {
	if _, err := ctx.Report.MarshalText(); err != nil {
		return nil, err
	}
	if _, err := ctx.System.MarshalText(); err != nil {
		return nil, err
	}

	timestamp := FormatSampleTime(ctx.SampleTime)
	sample := &Sample{
		Timestamp:   timestamp,
		SensorType:  ctx.System,
		SiteName:    ctx.Site,
		ReportType:  ctx.Report,
		PanelCounts: make(map[string]int),
		Points:      make([]Point, 0, len(rows)),
	}

	for i, row := range rows {
		point, err := NormalizePoint(row, ctx.System, ctx.Site, timestamp)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		sample.PanelCounts[point.PanelName]++
		sample.TotalCount++
		sample.Points = append(sample.Points, point)
	}

	sample.TotalPanels = len(sample.PanelCounts)
	return sample, nil
}
