package seasons

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
)

// Label is a human readable season, e.g. "2020-2021".
type Label string

// Identifier is the sport.de internal token for a season, e.g. "se36440".
type Identifier string

var identifiers = map[Label]Identifier{
	"2003-2004": "se3159",
	"2004-2005": "se3799",
	"2005-2006": "se4053",
	"2006-2007": "se4423",
	"2007-2008": "se5120",
	"2008-2009": "se112",
	"2009-2010": "se1477",
	"2010-2011": "se5847",
	"2011-2012": "se7182",
	"2012-2013": "se9080",
	"2013-2014": "se12441",
	"2014-2015": "se15417",
	"2015-2016": "se18372",
	"2016-2017": "se20904",
	"2017-2018": "se23964",
	"2018-2019": "se28592",
	"2019-2020": "se31824",
	"2020-2021": "se36440",
}

// SelectAll is the --seasons value that selects every mapped season.
const SelectAll = "all"

type ConfigurationError struct {
	Label Label
	// set when the label is malformed rather than just unmapped
	Reason string
	// closest known label, empty if nothing is remotely similar
	Suggestion Label
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("unsupported season %q", string(e.Label))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", string(e.Suggestion))
	}
	return msg
}

var labelRegex = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

// Validate checks that the label has the form YYYY-YYYY with consecutive years.
func (l Label) Validate() error {
	groups := labelRegex.FindStringSubmatch(string(l))
	if len(groups) < 3 {
		return &ConfigurationError{Label: l, Reason: "not of the form YYYY-YYYY"}
	}
	start, _ := strconv.Atoi(groups[1])
	end, _ := strconv.Atoi(groups[2])
	if end != start+1 {
		return &ConfigurationError{
			Label:      l,
			Reason:     "does not span consecutive years",
			Suggestion: suggest(l),
		}
	}
	return nil
}

func (l Label) String() string {
	return string(l)
}

// Lookup returns the identifier of a mapped season.
func Lookup(label Label) (Identifier, error) {
	id, ok := identifiers[label]
	if !ok {
		return "", &ConfigurationError{
			Label:      label,
			Suggestion: suggest(label),
		}
	}
	return id, nil
}

// All returns every mapped season in chronological order.
func All() []Label {
	labels := make([]Label, 0, len(identifiers))
	for label := range identifiers {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// ParseSelection turns the value of the --seasons flag into a list of labels,
// either "all" or a comma separated list such as "2019-2020,2020-2021".
func ParseSelection(selection string) ([]Label, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" || strings.EqualFold(selection, SelectAll) {
		return All(), nil
	}

	var labels []Label
	for _, part := range strings.Split(selection, ",") {
		label := Label(strings.TrimSpace(part))
		if label == "" {
			continue
		}
		err := label.Validate()
		if err != nil {
			return nil, err
		}
		_, err = Lookup(label)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no seasons selected in %q", selection)
	}
	return labels, nil
}

func suggest(label Label) Label {
	var best Label
	var bestSimilarity float64
	for _, known := range All() {
		similarity := matchr.JaroWinkler(string(label), string(known), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = known
		}
	}
	if bestSimilarity < 0.8 {
		return ""
	}
	return best
}
