package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseError is returned when a page does not have the structure a scraper
// expects: a missing table, element, anchor or attribute, or a number that
// doesn't parse.
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %s", e.Field, e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("parse %s: %s", e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GetText concatenates the text under `node`, skipping scripts and styles
// and turning line breaks into spaces.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		switch node.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br:
			buffer.WriteByte(' ')
			return
		}
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// SelectionText is the cleaned GetText of the first node in `sel`.
func SelectionText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return CleanText(GetText(sel.Get(0)))
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText trims the text, drops non-printable runes and collapses runs of
// whitespace into a single space.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// Table returns the table at position `index` (0-based) in the document.
func Table(doc *goquery.Document, index int) (*goquery.Selection, error) {
	tables := doc.Find("table")
	if index < 0 || index >= tables.Length() {
		return nil, &ParseError{
			Field:  "table",
			Reason: fmt.Sprintf("wanted table %d but the document has %d", index, tables.Length()),
		}
	}
	return tables.Eq(index), nil
}

// Rows returns every row of a table, a table without rows is an error.
func Rows(table *goquery.Selection) (*goquery.Selection, error) {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, &ParseError{Field: "table", Reason: "table has no rows"}
	}
	return rows, nil
}

// Find returns the first element matching `selector` under `sel`.
func Find(sel *goquery.Selection, field, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, &ParseError{
			Field:  field,
			Reason: fmt.Sprintf("no element matches %q", selector),
		}
	}
	return found, nil
}

// Text returns the cleaned text of the first element matching `selector`.
func Text(sel *goquery.Selection, field, selector string) (string, error) {
	found, err := Find(sel, field, selector)
	if err != nil {
		return "", err
	}
	return SelectionText(found), nil
}

// Attr returns the value of attribute `name` on the first node of `sel`.
func Attr(sel *goquery.Selection, field, name string) (string, error) {
	value, ok := sel.Attr(name)
	if !ok {
		return "", &ParseError{
			Field:  field,
			Reason: fmt.Sprintf("element has no %q attribute", name),
		}
	}
	return CleanText(value), nil
}

// Anchor returns the anchor at position `index` under `sel`, negative indices
// count from the last anchor (-1 is the last one).
func Anchor(sel *goquery.Selection, field string, index int) (*goquery.Selection, error) {
	anchors := sel.Find("a")
	n := anchors.Length()
	pos := index
	if pos < 0 {
		pos = n + pos
	}
	if pos < 0 || pos >= n {
		return nil, &ParseError{
			Field:  field,
			Reason: fmt.Sprintf("wanted anchor %d but the row has %d", index, n),
		}
	}
	return anchors.Eq(pos), nil
}

// Int parses an integer cell, accepting a leading '+' and the unicode minus
// sign some sites use for negative values.
func Int(field, text string) (int, error) {
	text = strings.ReplaceAll(CleanText(text), "−", "-")
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ParseError{
			Field:  field,
			Reason: fmt.Sprintf("%q is not an integer", text),
			Err:    err,
		}
	}
	return value, nil
}

// IntText is Text followed by Int.
func IntText(sel *goquery.Selection, field, selector string) (int, error) {
	text, err := Text(sel, field, selector)
	if err != nil {
		return 0, err
	}
	return Int(field, text)
}
