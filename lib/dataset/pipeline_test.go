package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"ssl-dataset/lib/htmlutil"
	"ssl-dataset/lib/scrapers/fetch"
	"ssl-dataset/lib/scrapers/sportde"
	"ssl-dataset/lib/scrapers/weltfussball"
	"ssl-dataset/lib/seasons"
	"ssl-dataset/lib/telemetry"
	"strings"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/standings_2020-2021.html
var standingsPage string

//go:embed testdata/match_day.html
var matchDayPage string

// stubFetcher serves pages from memory and remembers what was asked for.
type stubFetcher struct {
	pages    func(url string) (string, error)
	requests []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.requests = append(f.requests, url)
	page, err := f.pages(url)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

func servePage(page string) *stubFetcher {
	return &stubFetcher{pages: func(string) (string, error) { return page, nil }}
}

// spySink records whether it was ever written to.
type spySink struct {
	writes  int
	columns []string
	rows    [][]string
}

func (s *spySink) Write(_ context.Context, _ string, columns []string, rows [][]string) error {
	s.writes++
	s.columns = columns
	s.rows = rows
	return nil
}

func (s *spySink) String() string {
	return "spy"
}

func TestFinalScore(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:dataset")
	defer cleanup()

	fetcher := servePage(standingsPage)
	pipeline := FinalScore(DefaultSources())
	spy := &spySink{}

	table, err := pipeline.Run(context.Background(), fetcher, []seasons.Label{"2020-2021"}, spy)
	require.NoError(t, err)

	require.Equal(t, []string{
		"https://www.sport.de/fussball/schweiz-super-league/se36440/2020-2021/ergebnisse-und-tabelle/",
	}, fetcher.requests)

	require.Equal(t, 10, table.Len())
	require.Len(t, table.Columns, 10)
	require.Contains(t, table.Columns, "season")
	for i, standing := range table.Records {
		require.Equal(t, seasons.Label("2020-2021"), standing.Season)
		require.Equal(t, i+1, standing.Rank)
		require.Equal(t, standing.GamesPlayed, standing.Win+standing.Draw+standing.Lost, standing.TeamName)
	}

	first := table.Records[0]
	require.Equal(t, sportde.Standing{
		Season:      "2020-2021",
		TeamName:    "BSC Young Boys",
		Rank:        1,
		GamesPlayed: 36,
		Win:         26,
		Draw:        6,
		Lost:        4,
		GoalDiff:    "74:29",
		Difference:  45,
		Points:      84,
	}, first)
	require.Equal(t, "FC Vaduz", table.Records[9].TeamName)
	require.Equal(t, -22, table.Records[9].Difference)

	require.Equal(t, 1, spy.writes)
	require.Equal(t, table.Rows(), spy.rows)
	require.Equal(t, []string{"2020-2021", "BSC Young Boys", "1", "36", "26", "6", "4", "74:29", "45", "84"}, spy.rows[0])
}

func TestStandingsHaveNoRank(t *testing.T) {
	fetcher := servePage(standingsPage)
	labels := []seasons.Label{"2019-2020", "2020-2021"}

	table, err := Standings(DefaultSources()).Collect(context.Background(), fetcher, labels)
	require.NoError(t, err)

	require.Equal(t, sportde.Columns, table.Columns)
	require.NotContains(t, table.Columns, "rank")
	require.Equal(t, 20, table.Len())
	for i, standing := range table.Records {
		require.Zero(t, standing.Rank)
		require.Equal(t, labels[i/10], standing.Season)
	}
	require.Len(t, table.Rows()[0], 9)

	require.Len(t, fetcher.requests, 2)
	require.Contains(t, fetcher.requests[0], "/se31824/2019-2020/")
	require.Contains(t, fetcher.requests[1], "/se36440/2020-2021/")
}

func TestRankFollowsRowOrder(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(standingsPage))
	require.NoError(t, err)

	// reverse the rows, ranks must still be 1..N in the new order
	tbody := doc.Find("table").First().Find("tbody")
	rows := tbody.Find("tr")
	for i := rows.Length() - 1; i >= 0; i-- {
		tbody.AppendSelection(rows.Eq(i))
	}

	pipeline := FinalScore(DefaultSources())
	unit := Unit{Season: "2020-2021"}

	first, err := pipeline.Extract(doc, unit)
	require.NoError(t, err)
	second, err := pipeline.Extract(doc, unit)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}
	require.Len(t, first, 10)
	require.Equal(t, "FC Vaduz", first[0].TeamName)
	for i, standing := range first {
		require.Equal(t, i+1, standing.Rank)
	}
}

func TestFullSeason(t *testing.T) {
	fetcher := servePage(matchDayPage)

	table, err := FullSeason(DefaultSources()).Collect(context.Background(), fetcher, []seasons.Label{"2020-2021"})
	require.NoError(t, err)

	require.Equal(t, 180, table.Len())
	require.Equal(t, weltfussball.Columns, table.Columns)
	for i, match := range table.Records {
		require.Equal(t, i/5+1, match.MatchDay)
		require.Equal(t, seasons.Label("2020-2021"), match.Season)
	}

	require.Len(t, fetcher.requests, weltfussball.MatchDays)
	for i, url := range fetcher.requests {
		require.Equal(t, weltfussball.MatchDayURL(weltfussball.DefaultBaseUrl, "2020-2021", i+1), url)
	}

	require.Equal(t, weltfussball.Match{
		Season:   "2020-2021",
		MatchDay: 1,
		Team1:    "FC Lugano",
		Team2:    "FC Luzern",
		Scheme:   "FC Lugano - FC Luzern",
		Result:   "2:1",
	}, table.Records[0])
	require.Equal(t, "", table.Records[4].Result)
}

func TestFetchFailureWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	out := filepath.Join(t.TempDir(), "raw", "raw_data_final_score.csv")
	err := os.MkdirAll(filepath.Dir(out), 0777)
	require.NoError(t, err)
	err = os.WriteFile(out, []byte("previous run\n"), 0600)
	require.NoError(t, err)

	spy := &spySink{}
	pipeline := FinalScore(Sources{Standings: server.URL})
	table, err := pipeline.Run(
		context.Background(),
		fetch.NewClient(fetch.Options{}),
		[]seasons.Label{"2020-2021"},
		spy, CSVSink{Path: out},
	)
	require.Nil(t, table)

	var fetchErr *fetch.FetchError
	require.True(t, errors.As(err, &fetchErr), "got %v", err)
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	require.Equal(t, 0, spy.writes)

	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "previous run\n", string(contents))
}

func TestFailureAbortsRemainingUnits(t *testing.T) {
	fetcher := &stubFetcher{pages: func(url string) (string, error) {
		if strings.Contains(url, "/3/") {
			return "", &fetch.FetchError{URL: url, StatusCode: 403, Status: "403 Forbidden"}
		}
		return matchDayPage, nil
	}}

	spy := &spySink{}
	_, err := FullSeason(DefaultSources()).Run(context.Background(), fetcher, []seasons.Label{"2019-2020", "2020-2021"}, spy)
	var fetchErr *fetch.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, 403, fetchErr.StatusCode)
	require.Contains(t, err.Error(), "match day 3")

	require.Len(t, fetcher.requests, 3)
	require.Equal(t, 0, spy.writes)
}

func TestParseFailure(t *testing.T) {
	testCases := []struct {
		name  string
		page  string
		field string
	}{
		{name: "no tables", page: "<html><body><p>Wartung</p></body></html>", field: "table"},
		{name: "empty table", page: "<table></table>", field: "table"},
		{
			name:  "missing class",
			page:  strings.ReplaceAll(standingsPage, "standing-lost", "standing-l"),
			field: sportde.FieldLost,
		},
	}

	for _, test := range testCases {
		spy := &spySink{}
		_, err := FinalScore(DefaultSources()).Run(context.Background(), servePage(test.page), []seasons.Label{"2020-2021"}, spy)
		var parseErr *htmlutil.ParseError
		require.True(t, errors.As(err, &parseErr), "%s: got %v", test.name, err)
		require.Equal(t, test.field, parseErr.Field, test.name)
		require.Equal(t, 0, spy.writes, test.name)
	}

	// the full season pipeline reads the second table, a page with only the
	// schedule summary is malformed
	_, err := FullSeason(DefaultSources()).Collect(context.Background(), servePage(standingsPage[:strings.Index(standingsPage, `<div class="module-gameplan">`)]), []seasons.Label{"2020-2021"})
	var parseErr *htmlutil.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "table", parseErr.Field)
}

func TestUnknownSeason(t *testing.T) {
	fetcher := servePage(standingsPage)
	for _, pipeline := range []Pipeline[sportde.Standing]{Standings(DefaultSources()), FinalScore(DefaultSources())} {
		_, err := pipeline.Collect(context.Background(), fetcher, []seasons.Label{"2021-2022"})
		var configErr *seasons.ConfigurationError
		require.ErrorAs(t, err, &configErr)
	}
	_, err := FullSeason(DefaultSources()).Collect(context.Background(), fetcher, []seasons.Label{"1900-1901"})
	var configErr *seasons.ConfigurationError
	require.ErrorAs(t, err, &configErr)

	require.Empty(t, fetcher.requests)
}

func TestStandingsOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/se36440/2020-2021/ergebnisse-und-tabelle/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		fmt.Fprint(w, standingsPage)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "data", "raw", "raw_data.csv")
	table, err := Standings(Sources{Standings: server.URL}).Run(
		context.Background(),
		fetch.NewClient(fetch.Options{}),
		[]seasons.Label{"2020-2021"},
		CSVSink{Path: out},
	)
	require.NoError(t, err)
	require.Equal(t, 10, table.Len())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 11)
	require.Equal(t, sportde.Columns, records[0])
	require.Equal(t, "Servette Genève", records[3][1])
}
