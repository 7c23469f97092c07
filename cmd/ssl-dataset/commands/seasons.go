package commands

import (
	"os"
	"ssl-dataset/lib/scrapers/sportde"
	"ssl-dataset/lib/scrapers/weltfussball"
	"ssl-dataset/lib/seasons"
	"ssl-dataset/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seasonsCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func seasonsTable(cfg Config) (table.Writer, error) {
	t := newTable()
	t.AppendHeader(table.Row{"Season", "sport.de id", "Standings", "First match day"})
	for _, label := range seasons.All() {
		id, err := seasons.Lookup(label)
		if err != nil {
			return nil, err
		}
		t.AppendRow(table.Row{
			label,
			id,
			sportde.StandingsURL(cfg.StandingsBaseUrl, id, label),
			weltfussball.MatchDayURL(cfg.FixturesBaseUrl, label, 1),
		})
	}
	return t, nil
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Lists the seasons that can be scraped and the pages they are scraped from.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := ReadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		t, err := seasonsTable(cfg)
		if err != nil {
			serviceutil.Fatal("failed to list seasons", err)
		}
		t.Render()
	},
}
