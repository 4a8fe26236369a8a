package sites

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gocarina/gocsv"

	"desigo/bms"
	"desigo/store"
)

type Config struct {
	CSV string `arg:"--csv" help:"Write the site list to this CSV file"`
}

func (Config) Description() string {
	return `List the sites that have samples.
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

	sites, err := db.ListSites(ctx)
	if err != nil {
		slog.Error(err.Error())
		return err
	}

	if config.CSV != "" {
		return writeCSV(config.CSV, sites)
	}

	fmt.Println("Available sites:")
	for _, site := range sites {
		fmt.Println("    -", site.Name)
	}
	return nil
}

func writeCSV(path string, sites []bms.Site) error {
	file, err := os.Create(path)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	defer file.Close()

	slog.Info("Writing sites to " + path)
	if err := gocsv.Marshal(sites, file); err != nil {
		slog.Error(err.Error())
		return err
	}
	return nil
}
