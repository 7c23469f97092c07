package htmlutil

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<table id="first"><tr><td class="a"> one </td></tr></table>
<table id="second">
	<tr>
		<td><a title="Home" href="/home">Home</a></td>
		<td><a title="Away" href="/away">Away</a></td>
		<td><a title="Home - Away" href="/report">2:1
			(1:0)</a></td>
		<td class="num">&#8722;7</td>
	</tr>
</table>
<table id="empty"></table>
</body></html>`

func parse(t *testing.T, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func requireParseError(t *testing.T, err error, field string) {
	t.Helper()
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
	require.Equal(t, field, parseErr.Field)
}

func TestTable(t *testing.T) {
	doc := parse(t, page)

	table, err := Table(doc, 1)
	require.NoError(t, err)
	require.Equal(t, "second", table.AttrOr("id", ""))

	_, err = Table(doc, 3)
	requireParseError(t, err, "table")
	_, err = Table(doc, -1)
	requireParseError(t, err, "table")

	empty, err := Table(doc, 2)
	require.NoError(t, err)
	_, err = Rows(empty)
	requireParseError(t, err, "table")
}

func TestAccessors(t *testing.T) {
	doc := parse(t, page)
	table, err := Table(doc, 0)
	require.NoError(t, err)

	text, err := Text(table, "a", ".a")
	require.NoError(t, err)
	require.Equal(t, "one", text)

	_, err = Text(table, "b", ".b")
	requireParseError(t, err, "b")

	row := doc.Find("#second tr").First()

	first, err := Anchor(row, "team1", 0)
	require.NoError(t, err)
	title, err := Attr(first, "team1", "title")
	require.NoError(t, err)
	require.Equal(t, "Home", title)

	last, err := Anchor(row, "result", -1)
	require.NoError(t, err)
	require.Equal(t, "2:1 (1:0)", CleanText(last.Text()))

	_, err = Anchor(row, "missing", 3)
	requireParseError(t, err, "missing")
	_, err = Anchor(row, "missing", -4)
	requireParseError(t, err, "missing")

	_, err = Attr(first, "team1", "data-id")
	requireParseError(t, err, "team1")

	value, err := IntText(row, "difference", ".num")
	require.NoError(t, err)
	require.Equal(t, -7, value)
}

func TestInlineMarkup(t *testing.T) {
	doc := parse(t, `<table><tr>
		<td class="team"><b>FC</b><br>St. Gallen<script>track("team")</script><!-- 1879 --></td>
		<td class="points"><span>5</span>2<style>.points{}</style></td>
		<td class="empty"><script>x()</script></td>
	</tr></table>`)
	row := doc.Find("tr").First()

	name, err := Text(row, "team_name", ".team")
	require.NoError(t, err)
	require.Equal(t, "FC St. Gallen", name)

	points, err := IntText(row, "points", ".points")
	require.NoError(t, err)
	require.Equal(t, 52, points)

	empty, err := Text(row, "empty", ".empty")
	require.NoError(t, err)
	require.Equal(t, "", empty)

	require.Equal(t, "", SelectionText(row.Find(".missing")))
	require.Equal(t, "FC St. Gallen", CleanText(GetText(row.Find(".team").Get(0))))
}

func TestInt(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{text: "36", expected: 36},
		{text: " 0\n", expected: 0},
		{text: "+7", expected: 7},
		{text: "-11", expected: -11},
		{text: "−3", expected: -3},
	}
	for _, test := range testCases {
		value, err := Int("points", test.text)
		require.NoError(t, err, test.text)
		require.Equal(t, test.expected, value)
	}

	_, err := Int("points", "74:29")
	requireParseError(t, err, "points")
	require.ErrorIs(t, err, strconv.ErrSyntax)
}
