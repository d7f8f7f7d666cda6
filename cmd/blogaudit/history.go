package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/caobian/blogaudit/history"
)

func handleHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "blogaudit.db", "SQLite database of recorded runs")
	fs.Parse(args)

	store, err := history.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open history store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tBASE URL\tWINDOW\tLOCAL\tMATCHED\tMISSING\tRUN ID")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s..%s\t%d\t%d\t%d\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04"),
			run.BaseURL, run.From, run.To,
			run.LocalCount, run.MatchedCount, run.MissingCount,
			run.RunID)
	}
	w.Flush()
}
