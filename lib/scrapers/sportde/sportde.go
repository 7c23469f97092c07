// Package sportde scrapes end of season standings of the Swiss Super League
// from sport.de.
package sportde

import (
	"fmt"
	"ssl-dataset/lib/htmlutil"
	"ssl-dataset/lib/seasons"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseUrl = "https://www.sport.de/fussball/schweiz-super-league"

// the standings are the first table on the results page
const StandingsTableIndex = 0

const (
	FieldSeason      = "season"
	FieldTeamName    = "team_name"
	FieldRank        = "rank"
	FieldGamesPlayed = "games_played"
	FieldWin         = "win"
	FieldDraw        = "draw"
	FieldLost        = "lost"
	FieldGoalDiff    = "goal_diff"
	FieldDifference  = "difference"
	FieldPoints      = "points"
)

// Columns is the column order of the standings dataset.
var Columns = []string{
	FieldSeason,
	FieldTeamName,
	FieldGamesPlayed,
	FieldWin,
	FieldDraw,
	FieldLost,
	FieldGoalDiff,
	FieldDifference,
	FieldPoints,
}

// RankedColumns is the column order of the final score dataset.
var RankedColumns = []string{
	FieldSeason,
	FieldTeamName,
	FieldRank,
	FieldGamesPlayed,
	FieldWin,
	FieldDraw,
	FieldLost,
	FieldGoalDiff,
	FieldDifference,
	FieldPoints,
}

// Selectors maps each field to the element holding it within a standings row.
// The team name is the title of the image inside its element.
var Selectors = map[string]string{
	FieldTeamName:    ".team-image.team-image-",
	FieldGamesPlayed: ".standing-games_played",
	FieldWin:         ".standing-win",
	FieldDraw:        ".standing-draw",
	FieldLost:        ".standing-lost",
	FieldGoalDiff:    ".standing-goaldiff",
	FieldDifference:  ".standing-difference",
	FieldPoints:      ".standing-points",
}

func StandingsURL(baseUrl string, id seasons.Identifier, label seasons.Label) string {
	return fmt.Sprintf(
		"%s/%s/%s/ergebnisse-und-tabelle/",
		strings.TrimRight(baseUrl, "/"),
		id, label,
	)
}

// Standing is one team's aggregated result for one season.
type Standing struct {
	Season   seasons.Label
	TeamName string
	// 1-based position in the table, 0 when the dataset is unranked
	Rank        int
	GamesPlayed int
	Win         int
	Draw        int
	Lost        int
	// goals scored and conceded, "74:29"
	GoalDiff   string
	Difference int
	Points     int
}

func (s Standing) Value(column string) string {
	switch column {
	case FieldSeason:
		return string(s.Season)
	case FieldTeamName:
		return s.TeamName
	case FieldRank:
		return strconv.Itoa(s.Rank)
	case FieldGamesPlayed:
		return strconv.Itoa(s.GamesPlayed)
	case FieldWin:
		return strconv.Itoa(s.Win)
	case FieldDraw:
		return strconv.Itoa(s.Draw)
	case FieldLost:
		return strconv.Itoa(s.Lost)
	case FieldGoalDiff:
		return s.GoalDiff
	case FieldDifference:
		return strconv.Itoa(s.Difference)
	case FieldPoints:
		return strconv.Itoa(s.Points)
	}
	return ""
}

func teamName(row *goquery.Selection) (string, error) {
	image, err := htmlutil.Find(row, FieldTeamName, Selectors[FieldTeamName]+" img")
	if err != nil {
		return "", err
	}
	return htmlutil.Attr(image, FieldTeamName, "title")
}

// ParseStanding reads one table row, `rank` is stored as is.
func ParseStanding(row *goquery.Selection, season seasons.Label, rank int) (Standing, error) {
	name, err := teamName(row)
	if err != nil {
		return Standing{}, err
	}

	counts := map[string]int{}
	for _, field := range []string{FieldGamesPlayed, FieldWin, FieldDraw, FieldLost, FieldDifference, FieldPoints} {
		value, err := htmlutil.IntText(row, field, Selectors[field])
		if err != nil {
			return Standing{}, err
		}
		counts[field] = value
	}

	goalDiff, err := htmlutil.Text(row, FieldGoalDiff, Selectors[FieldGoalDiff])
	if err != nil {
		return Standing{}, err
	}

	return Standing{
		Season:      season,
		TeamName:    name,
		Rank:        rank,
		GamesPlayed: counts[FieldGamesPlayed],
		Win:         counts[FieldWin],
		Draw:        counts[FieldDraw],
		Lost:        counts[FieldLost],
		GoalDiff:    goalDiff,
		Difference:  counts[FieldDifference],
		Points:      counts[FieldPoints],
	}, nil
}
