package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rickb777/period"

	"desigo/bms"
	"desigo/store"
)

type mockQuerier struct {
	sites   []bms.Site
	samples []bms.Sample
	points  []bms.Point
}

func (q *mockQuerier) ListSites(context.Context) ([]bms.Site, error) {
	return q.sites, nil
}

func (q *mockQuerier) FindSite(_ context.Context, name string) (bms.Site, error) {
	for _, s := range q.sites {
		if s.Name == name {
			return s, nil
		}
	}
	return bms.Site{}, fmt.Errorf("%w: %q", store.ErrSiteNotFound, name)
}

func (q *mockQuerier) QuerySamples(_ context.Context, filter store.Filter) ([]bms.Sample, error) {
	var out []bms.Sample
	for _, s := range q.samples {
		if s.SiteName == filter.Site && (filter.Report == nil || *filter.Report == s.ReportType) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (q *mockQuerier) QueryPoints(_ context.Context, filter store.PointFilter) ([]bms.Point, error) {
	var out []bms.Point
	for _, p := range q.points {
		if p.Site == filter.Site && (filter.Panel == "" || p.PanelName == filter.Panel) &&
			(filter.Timestamp == "" || p.Timestamp == filter.Timestamp) {
			out = append(out, p)
		}
	}
	return out, nil
}

func sample(timestamp string, report bms.ReportType, system bms.SystemType, panels map[string]int) bms.Sample {
	var total int
	for _, count := range panels {
		total += count
	}
	return bms.Sample{
		Timestamp:   timestamp,
		SensorType:  system,
		SiteName:    "Main",
		ReportType:  report,
		TotalCount:  total,
		PanelCounts: panels,
		TotalPanels: len(panels),
	}
}

func date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func TestDedupeKeepsLatest(t *testing.T) {
	samples := []bms.Sample{
		sample("2024-06-01", bms.Failed, bms.Apogee, map[string]int{"P1": 1}),
		sample("2024-05-01", bms.Failed, bms.Apogee, map[string]int{"P1": 5}),
		sample("2024-06-01", bms.Failed, bms.Apogee, map[string]int{"P1": 3}),
		sample("2024-06-01", bms.Failed, bms.Bacnet, map[string]int{"P2": 2}),
		sample("not a date", bms.Failed, bms.Bacnet, map[string]int{"P2": 2}),
	}

	entries := Dedupe(samples)
	if len(entries) != 3 {
		t.Fatalf("Got %v entries, wanted 3", len(entries))
	}

	if entries[0].Timestamp != "2024-05-01" {
		t.Errorf("Got %v, wanted entries sorted by time", entries[0].Timestamp)
	}
	if entries[1].SensorType != bms.Apogee || entries[1].TotalCount != 3 {
		t.Errorf("Got %+v, wanted the latest apogee sample", entries[1])
	}
}

func TestSince(t *testing.T) {
	entries := Dedupe([]bms.Sample{
		sample("2024-01-01", bms.Failed, bms.Apogee, nil),
		sample("2024-05-01", bms.Failed, bms.Apogee, nil),
		sample("2024-06-01", bms.Failed, bms.Apogee, nil),
	})

	p, err := period.Parse("P2M")
	if err != nil {
		t.Fatal(err)
	}

	result := Since(entries, p, date("2024-06-15"))
	if len(result) != 2 || result[0].Timestamp != "2024-05-01" {
		t.Errorf("Got %+v, wanted the last two entries", result)
	}
}

func TestSiteSamples(t *testing.T) {
	q := &mockQuerier{
		sites: []bms.Site{{ID: 1, Name: "Main"}},
		samples: []bms.Sample{
			sample("2024-05-01", bms.Failed, bms.Apogee, map[string]int{"P1": 1}),
			sample("2024-05-01", bms.Alarm, bms.Apogee, map[string]int{"P1": 4}),
		},
	}

	failed := bms.Failed
	entries, err := SiteSamples(context.Background(), q, "Main", &failed)
	if err != nil || len(entries) != 1 || entries[0].ReportType != bms.Failed {
		t.Errorf("Got %+v (%v), wanted the failed sample only", entries, err)
	}

	if _, err := SiteSamples(context.Background(), q, "Annex", nil); !errors.Is(err, store.ErrSiteNotFound) {
		t.Errorf("Got %v, wanted %v", err, store.ErrSiteNotFound)
	}
}

func TestTotalsAndPanels(t *testing.T) {
	entries := Dedupe([]bms.Sample{
		sample("2024-05-01", bms.Failed, bms.Apogee, map[string]int{"P1": 2, "P2": 1}),
		sample("2024-05-01", bms.Failed, bms.Bacnet, map[string]int{"P1": 1, bms.UnknownPanel: 4}),
		sample("2024-06-01", bms.Failed, bms.Apogee, map[string]int{"P2": 7}),
	})

	totals := Totals(entries)
	if len(totals) != 2 || totals[0].TotalCount != 8 || totals[0].TotalPanels != 4 || totals[1].TotalCount != 7 {
		t.Errorf("Got %+v", totals)
	}

	table := Panels(entries)
	expectedPanels := []string{bms.UnknownPanel, "P1", "P2"}
	if strings.Join(table.Panels, ",") != strings.Join(expectedPanels, ",") {
		t.Errorf("Got %v, wanted %v", table.Panels, expectedPanels)
	}
	if len(table.Times) != 2 {
		t.Fatalf("Got %v rows, wanted 2", len(table.Times))
	}

	type testCase struct {
		panel    string
		expected []int
	}

	cases := []testCase{
		{"P1", []int{3, 0}},
		{"P2", []int{1, 7}},
		{bms.UnknownPanel, []int{4, 0}},
	}
	for _, c := range cases {
		column := table.Column(c.panel)
		if fmt.Sprint(column) != fmt.Sprint(c.expected) {
			t.Errorf("Got %v for %s, wanted %v", column, c.panel, c.expected)
		}
	}

	if table.Column("missing") != nil {
		t.Error("Got a column for an unknown panel")
	}
}

func TestOverviewAndMonths(t *testing.T) {
	entries := Dedupe([]bms.Sample{
		sample("2024-05-01", bms.Failed, bms.Apogee, map[string]int{"P1": 2}),
		sample("2024-05-01", bms.Alarm, bms.Apogee, map[string]int{"P1": 5}),
		sample("2024-05-15", bms.Operator, bms.Apogee, map[string]int{"P1": 1}),
		sample("2024-06-01", bms.Failed, bms.Apogee, map[string]int{"P1": 3}),
	})

	rows := Overview(entries)
	if len(rows) != 3 || rows[0].Counts[bms.Failed] != 2 || rows[0].Counts[bms.Alarm] != 5 || rows[0].Counts[bms.Operator] != 0 {
		t.Errorf("Got %+v", rows)
	}

	months := ByMonth(entries)
	if len(months) != 2 || months[0].Month != "2024-05" || len(months[0].Entries) != 3 || len(months[1].Entries) != 1 {
		t.Errorf("Got %+v", months)
	}

	if failed := FilterReport(entries, bms.Failed); len(failed) != 2 {
		t.Errorf("Got %v failed entries, wanted 2", len(failed))
	}
}

func TestMetrics(t *testing.T) {
	type testCase struct {
		values   []int
		expected Metric
		err      error
	}

	cases := []testCase{
		{[]int{10}, Metric{}, ErrNotEnoughSamples},
		{[]int{10, 14}, Metric{Current: 14, Delta: 4, Average: 12, AverageDelta: 2, MeanChange: 4}, nil},
		{[]int{10, 20, 12}, Metric{Current: 12, Delta: -8, Average: 14, AverageDelta: -1, MeanChange: 1}, nil},
	}

	for _, c := range cases {
		t.Log("Testing values:", c.values)
		result, err := Metrics(c.values)
		if !errors.Is(err, c.err) {
			t.Errorf("Got %v, wanted %v", err, c.err)
		}
		if result != c.expected {
			t.Errorf("Got %+v, wanted %+v", result, c.expected)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	entries := Dedupe([]bms.Sample{
		sample("2024-05-01", bms.Failed, bms.Bacnet, map[string]int{"P1": 2, "P2": 1}),
		sample("2024-06-01", bms.Failed, bms.Bacnet, map[string]int{"P2": 4}),
	})

	var summary bytes.Buffer
	if err := WriteSummaryCSV(&summary, entries); err != nil {
		t.Fatal(err)
	}
	expected := "timestamp,site_name,sensor_type,report_type,total_count,total_panels\n" +
		"2024-05-01,Main,bacnet,failed,3,2\n" +
		"2024-06-01,Main,bacnet,failed,4,1\n"
	if summary.String() != expected {
		t.Errorf("Got %q, wanted %q", summary.String(), expected)
	}

	var panels bytes.Buffer
	if err := WritePanelCSV(&panels, Panels(entries)); err != nil {
		t.Fatal(err)
	}
	expected = "timestamp,P1,P2\n2024-05-01,2,1\n2024-06-01,0,4\n"
	if panels.String() != expected {
		t.Errorf("Got %q, wanted %q", panels.String(), expected)
	}
}

func TestRunWritesFiles(t *testing.T) {
	q := &mockQuerier{
		sites: []bms.Site{{ID: 1, Name: "Main"}},
		samples: []bms.Sample{
			sample("2024-05-01", bms.Failed, bms.Bacnet, map[string]int{"P1": 2}),
			sample("2024-06-01", bms.Failed, bms.Bacnet, map[string]int{"P1": 1, "P2": 3}),
			sample("2024-06-01", bms.Alarm, bms.Bacnet, map[string]int{"P2": 1}),
		},
		points: []bms.Point{{Name: "S.Hardware.P1.A", PanelName: "P1", Site: "Main", Timestamp: "2024-06-01"}},
	}

	dir := t.TempDir()
	failed := bms.Failed
	configs := []Config{
		{Site: "Main", Monthly: true, CSV: filepath.Join(dir, "overview.csv")},
		{Site: "Main", Report: &failed, Panels: true, Panel: "P1", PanelCSV: filepath.Join(dir, "panels.csv")},
	}

	for _, config := range configs {
		if err := config.run(context.Background(), q); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"overview.csv", "panels.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Got %v, wanted %s to be written", err, name)
		}
	}

	missing := Config{Site: "Other"}
	if err := missing.run(context.Background(), q); !errors.Is(err, store.ErrSiteNotFound) {
		t.Errorf("Got %v, wanted %v", err, store.ErrSiteNotFound)
	}
}
