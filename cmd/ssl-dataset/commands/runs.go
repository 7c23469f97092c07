package commands

import (
	"context"
	"fmt"
	"ssl-dataset/lib/datastore"
	"ssl-dataset/lib/serviceutil"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsDb *string

func init() {
	runsDb = runsCmd.Flags().String("db", "", "The database the datasets were mirrored into, overrides db in the config.")
	rootCmd.AddCommand(runsCmd)
}

func runsTable(ctx context.Context, store datastore.Store, datasets []string) (table.Writer, error) {
	runs, err := store.Runs(ctx, datasets...)
	if err != nil {
		return nil, err
	}

	t := newTable()
	t.AppendHeader(table.Row{"Dataset", "Rows", "Written at"})
	for _, run := range runs {
		t.AppendRow(table.Row{run.Name, run.Rows, run.WrittenAt.Format(time.DateTime)})
	}
	return t, nil
}

var runsCmd = &cobra.Command{
	Use:   "runs [--db <path/to/dataset.db>] [dataset...]",
	Short: "Lists the datasets mirrored into the database and when they were written.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := ReadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		dbConfig := cfg.Db
		if *runsDb != "" {
			dbConfig = datastore.Config{File: *runsDb}
		}
		if !dbConfig.Enabled() {
			serviceutil.Fatal("no database to read", fmt.Errorf("pass --db or set db in %s", *configPath))
		}

		db, err := dbConfig.OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer db.Close()

		t, err := runsTable(cmd.Context(), datastore.NewStore(db), args)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}
		t.Render()
	},
}
