package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"desigo/api"
	"desigo/report"
	"desigo/schema"
	"desigo/sites"
	"desigo/upload"
)

type CmdArgs struct {
	Upload  *upload.Config `arg:"subcommand" help:"Upload point status reports of a site"`
	Report  *report.Config `arg:"subcommand" help:"Print historical counts of a site"`
	Sites   *sites.Config  `arg:"subcommand" help:"List the known sites"`
	Serve   *api.Config    `arg:"subcommand" help:"Serve the upload and report endpoints over HTTP"`
	Schema  *schema.Config `arg:"subcommand" help:"Create or drop the reporting tables"`
	Verbose bool           `arg:"-v" help:"Enable debug logging"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Every subcommand needs "REPORTING_CONN_STRING", possibly loaded from a .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn(err.Error())
	}

	args := CmdArgs{}
	parser := arg.MustParse(&args)

	if args.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	var err error
	switch {
	case args.Upload != nil:
		err = args.Upload.Execute()
	case args.Report != nil:
		err = args.Report.Execute()
	case args.Sites != nil:
		err = args.Sites.Execute()
	case args.Serve != nil:
		err = args.Serve.Execute()
	case args.Schema != nil:
		err = args.Schema.Execute()
	default:
		fmt.Println("Error: passing a subcommand is required.")
		fmt.Println()
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}

	if err != nil {
		os.Exit(1)
	}
}
