package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rickb777/period"

	"desigo/bms"
	"desigo/store"
)

type Config struct {
	Site     string          `arg:"-s,required" help:"Name of the site"`
	Report   *bms.ReportType `arg:"-t,--type" help:"Report type, overview of all types by default. Choices: ['failed', 'operator', 'alarm']"`
	Since    string          `help:"Only show samples within this ISO-8601 period, e.g. 'P6M'"`
	Panels   bool            `help:"Print the counts of every panel"`
	Panel    string          `help:"Print the history and the points of this panel"`
	At       string          `help:"Sample timestamp used together with --panel, all samples by default"`
	Monthly  bool            `help:"Group the printed samples by month"`
	CSV      string          `arg:"--csv" help:"Write the sample summary to this CSV file"`
	PanelCSV string          `arg:"--panel-csv" help:"Write the panel counts to this CSV file"`
}

func (Config) Description() string {
	return `Print historical counts of a site.
The following environment variable needs to be set:
    - "REPORTING_CONN_STRING"`
}

func (config *Config) Execute() error {
	ctx := context.Background()

	db, err := store.New(ctx, os.Getenv(store.CONN_ENV_VAR))
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer db.Close()

	if err := config.run(ctx, db); err != nil {
		slog.Error(err.Error())
		return err
	}
	return nil
}

func (config *Config) run(ctx context.Context, q Querier) error {
	entries, err := SiteSamples(ctx, q, config.Site, config.Report)
	if err != nil {
		return err
	}

	if config.Since != "" {
		p, err := period.Parse(config.Since)
		if err != nil {
			return fmt.Errorf("invalid --since period: %w", err)
		}
		entries = Since(entries, p, time.Now())
	}

	if len(entries) == 0 {
		fmt.Printf("No samples found for site %q\n", config.Site)
		return nil
	}

	fmt.Printf("%s: %v samples, last sampled %s\n\n", config.Site, len(entries), LastSampled(entries))

	if config.CSV != "" {
		if err := writeFile(config.CSV, entries, WriteSummaryCSV); err != nil {
			return err
		}
	}

	if config.Report == nil {
		return config.printOverview(entries)
	}

	label := config.Report.Label()
	if err := config.printTotals(entries, label); err != nil {
		return err
	}

	if metric, err := Metrics(totalCounts(entries)); err == nil {
		fmt.Println()
		PrintMetric(os.Stdout, "Total "+label, metric)
	}

	table := Panels(entries)
	if config.PanelCSV != "" {
		if err := writeFile(config.PanelCSV, table, WritePanelCSV); err != nil {
			return err
		}
	}

	if config.Panels {
		fmt.Println()
		if err := PrintPanels(os.Stdout, table); err != nil {
			return err
		}
	}

	if config.Panel != "" {
		fmt.Println()
		printPanelHistory(table, config.Panel)

		points, err := PanelPoints(ctx, q, config.Site, config.Report, config.Panel, config.At)
		if err != nil {
			return err
		}
		fmt.Println()
		return PrintPoints(os.Stdout, points)
	}

	return nil
}

func (config *Config) printOverview(entries []Entry) error {
	if config.Monthly {
		for _, group := range ByMonth(entries) {
			fmt.Println(group.Month)
			if err := PrintOverview(os.Stdout, Overview(group.Entries)); err != nil {
				return err
			}
			fmt.Println()
		}
	} else if err := PrintOverview(os.Stdout, Overview(entries)); err != nil {
		return err
	}

	for _, report := range bms.REPORT_TYPES {
		if metric, err := Metrics(totalCounts(FilterReport(entries, report))); err == nil {
			fmt.Println()
			PrintMetric(os.Stdout, "Total "+report.Label(), metric)
		}
	}
	return nil
}

func (config *Config) printTotals(entries []Entry, label string) error {
	if !config.Monthly {
		return PrintTotals(os.Stdout, Totals(entries), label)
	}

	for _, group := range ByMonth(entries) {
		fmt.Println(group.Month)
		if err := PrintTotals(os.Stdout, Totals(group.Entries), label); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func printPanelHistory(table *PanelTable, panel string) {
	column := table.Column(panel)
	if column == nil {
		fmt.Printf("Panel %q has no points in the selected samples\n", panel)
		return
	}

	fmt.Printf("History of panel %q:\n", panel)
	for i, count := range column {
		fmt.Printf("    %s: %v\n", bms.FormatSampleTime(table.Times[i]), count)
	}
}

func totalCounts(entries []Entry) []int {
	totals := Totals(entries)
	counts := make([]int, len(totals))
	for i, row := range totals {
		counts[i] = row.TotalCount
	}
	return counts
}

func writeFile[T any](path string, data T, write func(io.Writer, T) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	slog.Info("Writing " + path)
	return write(file, data)
}
