package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"desigo/bms"
	"desigo/sheet"
	"desigo/store"
	"desigo/utils"
)

type Config struct {
	Files   []string         `arg:"positional,required" help:"Exported point reports (.xlsx or .csv)"`
	Site    string           `arg:"-s,required" help:"Name of the site the reports belong to"`
	NewSite bool             `help:"Create the site if it does not exist yet"`
	System  *bms.SystemType  `arg:"--system" help:"System type of the exports, inferred from the file name by default. Choices: ['apogee', 'bacnet']"`
	Report  *bms.ReportType  `arg:"--report" help:"Report type of the exports, inferred from the file name by default. Choices: ['failed', 'operator', 'alarm']"`
	Date    *utils.Timestamp `arg:"-d" help:"Sample date-only timestamp, today by default"`
}

func (Config) Description() string {
	return `Upload BMS point reports as site samples.
The following environment variable needs to be set:
    - "REPORTING_CONN_STRING"`
}

// Each file is stored as an independent sample, a failing file does not stop the others
func (config *Config) Execute() error {
	ctx := context.Background()

	db, err := store.New(ctx, os.Getenv(store.CONN_ENV_VAR))
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer db.Close()

	sampleTime := config.Date.Time()

	var errs []error
	bar := utils.NewBar(len(config.Files), config.Site)
	bar.RenderBlank()
	for _, path := range config.Files {
		if err := config.uploadFile(ctx, db, path, sampleTime); err != nil {
			errs = append(errs, err)
		}
		bar.Add(1)
	}

	if err := errors.Join(errs...); err != nil {
		fmt.Println(err)
		return err
	}

	slog.Info("Upload complete!")
	return nil
}

func (config *Config) uploadFile(ctx context.Context, w Writer, path string, sampleTime time.Time) error {
	logStr := fmt.Sprintf("[%s - %s]: ", config.Site, filepath.Base(path))

	rows, err := sheet.ReadFile(path)
	if err != nil {
		slog.Error(logStr + err.Error())
		return err
	}

	result, err := Ingest(ctx, w, Request{
		Filename:   filepath.Base(path),
		Rows:       rows,
		System:     config.System,
		Report:     config.Report,
		Site:       config.Site,
		NewSite:    config.NewSite,
		SampleTime: sampleTime,
	})
	if err != nil {
		slog.Error(logStr + err.Error())
		return err
	}

	slog.Info(fmt.Sprintf(
		"%s%s %s report: %s points in %s panels (sample %v)",
		logStr,
		result.Sample.SensorType,
		result.Sample.ReportType,
		humanize.Comma(int64(result.Sample.TotalCount)),
		humanize.Comma(int64(result.Sample.TotalPanels)),
		result.SampleID,
	))
	return nil
}
