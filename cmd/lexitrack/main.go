// Command lexitrack runs the vocabulary review service.
//
// Usage:
//
//	lexitrack [serve]                 start the HTTP API (default)
//	lexitrack migrate                 apply pending schema migrations
//	lexitrack import [-sheet S] FILE  load vocabulary from .xlsx or .csv
//	lexitrack reset-stats             clear statistics and daily history
//	lexitrack version                 print the build version
//
// Configuration is read from CONFIG_PATH (default ./config.yaml), .env and
// the environment. Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/lexitrack/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = app.Run(ctx)

	case "migrate":
		err = app.Migrate(ctx)

	case "import":
		fs := flag.NewFlagSet("import", flag.ContinueOnError)
		sheet := fs.String("sheet", "", "worksheet name for .xlsx files (default: first sheet)")
		if err := fs.Parse(args); err != nil {
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: lexitrack import [-sheet S] FILE")
			return 2
		}

		report, ierr := app.Import(ctx, fs.Arg(0), *sheet)
		if ierr == nil {
			fmt.Printf("processed %d: created %d, updated %d, skipped %d\n",
				report.Processed, report.Created, report.Updated, report.Skipped)
			for _, re := range report.Errors {
				fmt.Printf("  row %d: %s\n", re.Row, re.Message)
			}
		}
		err = ierr

	case "reset-stats":
		err = app.ResetStats(ctx)

	case "version":
		fmt.Println(app.BuildVersion())

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "lexitrack %s: %v\n", cmd, err)
		return 1
	}
	return 0
}
