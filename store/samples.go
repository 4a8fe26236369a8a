package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"desigo/bms"
)

var POINTS_TABLE pgx.Identifier = pgx.Identifier{"sample_points"}
var POINTS_COLS []string = []string{
	"sample_id", "position", "name", "panel_name", "description", "system_type", "units",
	"command_priority", "current_value", "status", "alarm_category", "object_type",
	"creation_time", "site", "timestamp",
}

// Equality filters on stored samples, a nil Report matches every report type
type Filter struct {
	Site   string
	Report *bms.ReportType
}

func (f *Filter) reportParam() *string {
	if f.Report == nil {
		return nil
	}
	report := f.Report.String()
	return &report
}

// Filters used to rebuild the points of a panel, empty fields match everything
type PointFilter struct {
	Filter
	Panel     string
	Timestamp string
}

// Inserts the sample and its points in a single transaction, returning the sample ID
func (s *Store) InsertSample(ctx context.Context, site bms.Site, sample *bms.Sample) (id int64, err error) {
	transaction, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	// No-op once committed
	defer transaction.Rollback(ctx)

	err = transaction.QueryRow(ctx,
		`INSERT INTO site_samples
            (site_id, site_name, timestamp, sensor_type, report_type, total_count, total_panels, panel_counts)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            RETURNING id`,
		site.ID, sample.SiteName, sample.Timestamp, sample.SensorType.String(), sample.ReportType.String(),
		sample.TotalCount, sample.TotalPanels, sample.PanelCounts,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("could not insert sample: %w", err)
	}

	size := len(sample.Points)
	count, err := transaction.CopyFrom(ctx, POINTS_TABLE, POINTS_COLS,
		pgx.CopyFromSlice(size, func(i int) ([]any, error) {
			p := &sample.Points[i]
			return []any{
				id, i, p.Name, p.PanelName, p.Description, p.SystemType.String(), p.Units,
				p.CommandPriority, p.CurrentValue, p.Status, p.AlarmCategory, p.ObjectType,
				p.CreationTime, p.Site, p.Timestamp,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("could not insert points: %w", err)
	}
	if int(count) != size {
		return 0, fmt.Errorf("inserted %v/%v points", count, size)
	}

	if err := transaction.Commit(ctx); err != nil {
		return 0, err
	}

	slog.Info(fmt.Sprintf("[%s - %s]: sample %v stored with %v points", sample.SiteName, sample.Timestamp, id, count))
	return id, nil
}

type sampleRow struct {
	ID          int64          `db:"id"`
	Timestamp   string         `db:"timestamp"`
	SensorType  string         `db:"sensor_type"`
	SiteName    string         `db:"site_name"`
	ReportType  string         `db:"report_type"`
	TotalCount  int32          `db:"total_count"`
	TotalPanels int32          `db:"total_panels"`
	PanelCounts map[string]int `db:"panel_counts"`
}

func (r *sampleRow) toSample() (bms.Sample, error) {
	system, err := bms.ParseSystemType(r.SensorType)
	if err != nil {
		return bms.Sample{}, err
	}
	report, err := bms.ParseReportType(r.ReportType)
	if err != nil {
		return bms.Sample{}, err
	}

	return bms.Sample{
		Timestamp:   r.Timestamp,
		SensorType:  system,
		SiteName:    r.SiteName,
		ReportType:  report,
		TotalCount:  int(r.TotalCount),
		PanelCounts: r.PanelCounts,
		TotalPanels: int(r.TotalPanels),
	}, nil
}

// Returns the summary of the matching samples (without points) in insertion order
func (s *Store) QuerySamples(ctx context.Context, filter Filter) ([]bms.Sample, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, timestamp, sensor_type, site_name, report_type, total_count, total_panels, panel_counts
            FROM site_samples
            WHERE site_name = $1
              AND ($2::text IS NULL OR report_type = $2)
            ORDER BY id`,
		filter.Site, filter.reportParam(),
	)
	if err != nil {
		return nil, err
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[sampleRow])
	if err != nil {
		return nil, err
	}

	samples := make([]bms.Sample, 0, len(records))
	for _, record := range records {
		sample, err := record.toSample()
		if err != nil {
			slog.Warn(fmt.Sprintf("Skipping sample %v: %s", record.ID, err))
			continue
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

type pointRow struct {
	Name            string `db:"name"`
	PanelName       string `db:"panel_name"`
	Description     string `db:"description"`
	SystemType      string `db:"system_type"`
	Units           string `db:"units"`
	CommandPriority string `db:"command_priority"`
	CurrentValue    string `db:"current_value"`
	Status          string `db:"status"`
	AlarmCategory   string `db:"alarm_category"`
	ObjectType      string `db:"object_type"`
	CreationTime    string `db:"creation_time"`
	Site            string `db:"site"`
	Timestamp       string `db:"timestamp"`
}

// Returns the points of the latest sample for each (timestamp, report type, sensor type),
// in sample and row order
func (s *Store) QueryPoints(ctx context.Context, filter PointFilter) ([]bms.Point, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.name, p.panel_name, p.description, p.system_type, p.units, p.command_priority,
                p.current_value, p.status, p.alarm_category, p.object_type, p.creation_time,
                p.site, p.timestamp
            FROM sample_points p
            JOIN site_samples s ON s.id = p.sample_id
            WHERE s.id IN (
                SELECT max(id) FROM site_samples
                WHERE site_name = $1
                  AND ($2::text IS NULL OR report_type = $2)
                GROUP BY timestamp, report_type, sensor_type
            )
              AND ($3::text = '' OR p.panel_name = $3)
              AND ($4::text = '' OR p.timestamp = $4)
            ORDER BY s.id, p.position`,
		filter.Site, filter.reportParam(), filter.Panel, filter.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[pointRow])
	if err != nil {
		return nil, err
	}

	points := make([]bms.Point, 0, len(records))
	for _, r := range records {
		system, err := bms.ParseSystemType(r.SystemType)
		if err != nil {
			return nil, err
		}
		points = append(points, bms.Point{
			Name:            r.Name,
			PanelName:       r.PanelName,
			Description:     r.Description,
			SystemType:      system,
			Units:           r.Units,
			CommandPriority: r.CommandPriority,
			CurrentValue:    r.CurrentValue,
			Status:          r.Status,
			AlarmCategory:   r.AlarmCategory,
			ObjectType:      r.ObjectType,
			CreationTime:    r.CreationTime,
			Site:            r.Site,
			Timestamp:       r.Timestamp,
		})
	}
	return points, nil
}
