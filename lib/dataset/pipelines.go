package dataset

import (
	"ssl-dataset/lib/scrapers/sportde"
	"ssl-dataset/lib/scrapers/weltfussball"
	"ssl-dataset/lib/seasons"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var StandingsDelays = []time.Duration{
	1 * time.Second,
	3 * time.Second,
	5 * time.Second,
	8 * time.Second,
}

var FullSeasonDelays = []time.Duration{
	1500 * time.Millisecond,
	4 * time.Second,
	5 * time.Second,
	6500 * time.Millisecond,
}

// Sources are the base urls of the scraped sites.
type Sources struct {
	Standings string
	Fixtures  string
}

func DefaultSources() Sources {
	return Sources{
		Standings: sportde.DefaultBaseUrl,
		Fixtures:  weltfussball.DefaultBaseUrl,
	}
}

func standingsUnits(baseUrl string) func(seasons.Label) ([]Unit, error) {
	return func(season seasons.Label) ([]Unit, error) {
		id, err := seasons.Lookup(season)
		if err != nil {
			return nil, err
		}
		return []Unit{{
			Season: season,
			URL:    sportde.StandingsURL(baseUrl, id, season),
		}}, nil
	}
}

// Standings is the table of every season without ranks.
func Standings(src Sources) Pipeline[sportde.Standing] {
	return Pipeline[sportde.Standing]{
		Name:       "standings",
		Columns:    sportde.Columns,
		Delays:     StandingsDelays,
		TableIndex: sportde.StandingsTableIndex,
		Units:      standingsUnits(src.Standings),
		Row: func(row *goquery.Selection, _ int, unit Unit) (sportde.Standing, error) {
			return sportde.ParseStanding(row, unit.Season, 0)
		},
	}
}

// FinalScore is the table of every season, ranked by table position.
func FinalScore(src Sources) Pipeline[sportde.Standing] {
	return Pipeline[sportde.Standing]{
		Name:       "final-score",
		Columns:    sportde.RankedColumns,
		Delays:     StandingsDelays,
		TableIndex: sportde.StandingsTableIndex,
		Units:      standingsUnits(src.Standings),
		Row: func(row *goquery.Selection, index int, unit Unit) (sportde.Standing, error) {
			return sportde.ParseStanding(row, unit.Season, index+1)
		},
	}
}

// FullSeason is every fixture of every match day.
func FullSeason(src Sources) Pipeline[weltfussball.Match] {
	return Pipeline[weltfussball.Match]{
		Name:       "full-season",
		Columns:    weltfussball.Columns,
		Delays:     FullSeasonDelays,
		TableIndex: weltfussball.MatchesTableIndex,
		Units: func(season seasons.Label) ([]Unit, error) {
			_, err := seasons.Lookup(season)
			if err != nil {
				return nil, err
			}
			units := make([]Unit, weltfussball.MatchDays)
			for i := range units {
				day := i + 1
				units[i] = Unit{
					Season:   season,
					MatchDay: day,
					URL:      weltfussball.MatchDayURL(src.Fixtures, season, day),
				}
			}
			return units, nil
		},
		Row: func(row *goquery.Selection, _ int, unit Unit) (weltfussball.Match, error) {
			return weltfussball.ParseMatch(row, unit.Season, unit.MatchDay)
		},
	}
}
