// Package report selects stored samples and reshapes them into the time series
// shown on the dashboards.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/rickb777/period"

	"desigo/bms"
	"desigo/store"
)

// Read side of the store
type Querier interface {
	ListSites(ctx context.Context) ([]bms.Site, error)
	FindSite(ctx context.Context, name string) (bms.Site, error)
	QuerySamples(ctx context.Context, filter store.Filter) ([]bms.Sample, error)
	QueryPoints(ctx context.Context, filter store.PointFilter) ([]bms.Point, error)
}

// Sample with its parsed timestamp
type Entry struct {
	Time time.Time
	bms.Sample
}

// Returns the deduplicated samples of a site sorted by time.
// A nil report selects every report type.
func SiteSamples(ctx context.Context, q Querier, site string, report *bms.ReportType) ([]Entry, error) {
	if _, err := q.FindSite(ctx, site); err != nil {
		return nil, err
	}

	samples, err := q.QuerySamples(ctx, store.Filter{Site: site, Report: report})
	if err != nil {
		return nil, err
	}
	return Dedupe(samples), nil
}

type dedupeKey struct {
	timestamp string
	report    bms.ReportType
	sensor    bms.SystemType
}

// Keeps the last sample for each (timestamp, report type, sensor type), in storage order,
// and sorts them by time. Samples with invalid timestamps are dropped.
func Dedupe(samples []bms.Sample) []Entry {
	latest := make(map[dedupeKey]int, len(samples))
	for i, s := range samples {
		latest[dedupeKey{s.Timestamp, s.ReportType, s.SensorType}] = i
	}

	entries := make([]Entry, 0, len(latest))
	for i, s := range samples {
		if latest[dedupeKey{s.Timestamp, s.ReportType, s.SensorType}] != i {
			continue
		}

		t, err := bms.ParseSampleTime(s.Timestamp)
		if err != nil {
			slog.Warn(fmt.Sprintf("[%s]: skipping sample, %s", s.SiteName, err))
			continue
		}
		entries = append(entries, Entry{Time: t, Sample: s})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Time.Compare(b.Time)
	})
	return entries
}

func FilterReport(entries []Entry, report bms.ReportType) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ReportType == report {
			out = append(out, e)
		}
	}
	return out
}

// Keeps the entries sampled within the period before now
func Since(entries []Entry, p period.Period, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		end, ok := p.AddTo(e.Time)
		if !ok || !end.Before(now) {
			out = append(out, e)
		}
	}
	return out
}

// Returns the points of a panel for one sample time, e.g. to inspect a spike
func PanelPoints(ctx context.Context, q Querier, site string, report *bms.ReportType, panel, timestamp string) ([]bms.Point, error) {
	if _, err := q.FindSite(ctx, site); err != nil {
		return nil, err
	}

	return q.QueryPoints(ctx, store.PointFilter{
		Filter:    store.Filter{Site: site, Report: report},
		Panel:     panel,
		Timestamp: timestamp,
	})
}
