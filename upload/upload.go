package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"desigo/bms"
	"desigo/store"
)

var ErrTypeNotResolved = errors.New("type could not be inferred from the file name")

// Subset of the store needed to persist an upload
type Writer interface {
	FindSite(ctx context.Context, name string) (bms.Site, error)
	CreateSite(ctx context.Context, name string) (bms.Site, error)
	InsertSample(ctx context.Context, site bms.Site, sample *bms.Sample) (int64, error)
}

// A single uploaded report. Explicit types take precedence over the file name hints.
type Request struct {
	Filename   string
	Rows       []bms.RawRow
	System     *bms.SystemType
	Report     *bms.ReportType
	Site       string
	NewSite    bool
	SampleTime time.Time
}

type Result struct {
	SampleID int64
	Sample   *bms.Sample
}

// Resolves system and report type, explicit values first, then file name hints
func ResolveTypes(filename string, system *bms.SystemType, report *bms.ReportType) (bms.SystemType, bms.ReportType, error) {
	var s bms.SystemType
	var r bms.ReportType
	var ok bool

	if system != nil {
		s = *system
	} else if s, ok = bms.SystemTypeFromFilename(filename); !ok {
		return 0, 0, fmt.Errorf("system %w %q, choose one of %v", ErrTypeNotResolved, filename, bms.SYSTEM_TYPES)
	}

	if report != nil {
		r = *report
	} else if r, ok = bms.ReportTypeFromFilename(filename); !ok {
		return 0, 0, fmt.Errorf("report %w %q, choose one of %v", ErrTypeNotResolved, filename, bms.REPORT_TYPES)
	}

	return s, r, nil
}

// Aggregates the rows and stores them as a new sample.
// Nothing is written if the rows cannot be aggregated.
func Ingest(ctx context.Context, w Writer, req Request) (*Result, error) {
	system, report, err := ResolveTypes(req.Filename, req.System, req.Report)
	if err != nil {
		return nil, err
	}

	sample, err := bms.Aggregate(req.Rows, bms.Context{
		System:     system,
		Report:     report,
		Site:       req.Site,
		SampleTime: req.SampleTime,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Filename, err)
	}

	site, err := resolveSite(ctx, w, req.Site, req.NewSite)
	if err != nil {
		return nil, err
	}

	id, err := w.InsertSample(ctx, site, sample)
	if err != nil {
		return nil, err
	}

	return &Result{SampleID: id, Sample: sample}, nil
}

func resolveSite(ctx context.Context, w Writer, name string, create bool) (bms.Site, error) {
	site, err := w.FindSite(ctx, name)
	if err == nil {
		return site, nil
	}

	if !errors.Is(err, store.ErrSiteNotFound) || !create {
		return site, err
	}

	slog.Info(fmt.Sprintf("Creating new site %q", name))
	return w.CreateSite(ctx, name)
}
