// Package weltfussball scrapes the Swiss Super League fixtures of every match
// day from weltfussball.com.
package weltfussball

import (
	"fmt"
	"ssl-dataset/lib/htmlutil"
	"ssl-dataset/lib/seasons"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseUrl = "https://www.weltfussball.com"

// MatchDays is the number of rounds in a Super League season.
const MatchDays = 36

// the first table of a match day page is the schedule summary
const MatchesTableIndex = 1

const (
	FieldSeason   = "season"
	FieldMatchDay = "match_day"
	FieldTeam1    = "team1"
	FieldTeam2    = "team2"
	FieldScheme   = "scheme"
	FieldResult   = "result"
)

var Columns = []string{
	FieldSeason,
	FieldMatchDay,
	FieldTeam1,
	FieldTeam2,
	FieldScheme,
	FieldResult,
}

// AnchorPositions maps each field to the anchor that holds it within a
// fixture row, negative positions count from the last anchor.
var AnchorPositions = map[string]int{
	FieldTeam1:  0,
	FieldTeam2:  1,
	FieldScheme: 2,
	FieldResult: -1,
}

func MatchDayURL(baseUrl string, label seasons.Label, matchDay int) string {
	return fmt.Sprintf(
		"%s/spielplan/sui-super-league-%s-spieltag/%d/",
		strings.TrimRight(baseUrl, "/"),
		label, matchDay,
	)
}

// Match is a single fixture of a season.
type Match struct {
	Season   seasons.Label
	MatchDay int
	Team1    string
	Team2    string
	// "FC Lugano - FC Luzern"
	Scheme string
	// "2:1", empty when the match has not been played
	Result string
}

func (m Match) Value(column string) string {
	switch column {
	case FieldSeason:
		return string(m.Season)
	case FieldMatchDay:
		return strconv.Itoa(m.MatchDay)
	case FieldTeam1:
		return m.Team1
	case FieldTeam2:
		return m.Team2
	case FieldScheme:
		return m.Scheme
	case FieldResult:
		return m.Result
	}
	return ""
}

func anchorTitle(row *goquery.Selection, field string) (string, error) {
	anchor, err := htmlutil.Anchor(row, field, AnchorPositions[field])
	if err != nil {
		return "", err
	}
	return htmlutil.Attr(anchor, field, "title")
}

// the result anchor reads like "2:1 (1:0)", only the full time score is kept
func result(row *goquery.Selection) (string, error) {
	anchor, err := htmlutil.Anchor(row, FieldResult, AnchorPositions[FieldResult])
	if err != nil {
		return "", err
	}
	tokens := strings.Fields(htmlutil.SelectionText(anchor))
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0], nil
}

func ParseMatch(row *goquery.Selection, season seasons.Label, matchDay int) (Match, error) {
	team1, err := anchorTitle(row, FieldTeam1)
	if err != nil {
		return Match{}, err
	}
	team2, err := anchorTitle(row, FieldTeam2)
	if err != nil {
		return Match{}, err
	}
	scheme, err := anchorTitle(row, FieldScheme)
	if err != nil {
		return Match{}, err
	}
	res, err := result(row)
	if err != nil {
		return Match{}, err
	}

	return Match{
		Season:   season,
		MatchDay: matchDay,
		Team1:    team1,
		Team2:    team2,
		Scheme:   scheme,
		Result:   res,
	}, nil
}
