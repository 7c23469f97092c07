package commands

import (
	"ssl-dataset/lib/dataset"
)

func init() {
	rootCmd.AddCommand(scrapeCommand(
		"standings",
		"Scrapes the standings of every selected season from sport.de.",
		"output.standings",
		dataset.Standings,
		func(o OutputConfig) string { return o.Standings },
	))
	rootCmd.AddCommand(scrapeCommand(
		"final-score",
		"Scrapes the standings of every selected season from sport.de, ranked by table position.",
		"output.final_score",
		dataset.FinalScore,
		func(o OutputConfig) string { return o.FinalScore },
	))
	rootCmd.AddCommand(scrapeCommand(
		"full-season",
		"Scrapes every fixture of every match day of the selected seasons from weltfussball.com.",
		"output.full_season",
		dataset.FullSeason,
		func(o OutputConfig) string { return o.FullSeason },
	))
}
