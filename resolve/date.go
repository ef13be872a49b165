package resolve

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pevans/feedscrape/normalize"
)

var (
	relativeRe = regexp.MustCompile(`^(\d+)\s*(minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w)(?:\s+ago)?$`)
	atTimeRe   = regexp.MustCompile(`\s+at\s+\d{1,2}:\d{2}(?:\s*[ap]\.?m\.?)?$`)
)

// yesterdayWords are accepted spellings of "yesterday".
var yesterdayWords = map[string]bool{
	"yesterday": true,
	"hier":      true,
	"gestern":   true,
	"ayer":      true,
}

// isoLayouts are tried on machine-readable values such as a time element's
// datetime attribute.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// dayMonthLayouts parse day+month text. Layouts without a year are mapped
// onto the current year.
var dayMonthLayouts = []struct {
	layout  string
	hasYear bool
}{
	{"Monday, 2 January 2006", true},
	{"Monday, January 2, 2006", true},
	{"2 January 2006", true},
	{"January 2, 2006", true},
	{"January 2 2006", true},
	{"2 Jan 2006", true},
	{"Jan 2, 2006", true},
	{"Jan 2 2006", true},
	{"2 January", false},
	{"January 2", false},
	{"2 Jan", false},
	{"Jan 2", false},
}

// Date interprets a timestamp label relative to now. It understands relative
// durations ("5 min", "2h", "3 days ago"), "yesterday", day+month text with
// an optional year and an optional trailing "at HH:MM", and ISO dates. The
// second result is false when the label could not be understood; callers
// must treat that as "unknown", not as an error.
func Date(s string, now time.Time) (time.Time, bool) {
	raw := normalize.Text(s)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return t, true
		}
	}

	label := strings.ToLower(raw)
	label = atTimeRe.ReplaceAllString(label, "")

	if m := relativeRe.FindStringSubmatch(label); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		unit := unitDuration(m[2])
		// Beyond this the duration overflows.
		if n > math.MaxInt64/int64(unit) {
			return time.Time{}, false
		}
		return now.Add(-time.Duration(n) * unit), true
	}

	if yesterdayWords[label] {
		return now.AddDate(0, 0, -1), true
	}

	for _, l := range dayMonthLayouts {
		t, err := time.ParseInLocation(l.layout, label, now.Location())
		if err != nil {
			continue
		}
		year := t.Year()
		if !l.hasYear {
			year = now.Year()
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
	}

	return time.Time{}, false
}

// unitDuration maps a relative-time unit word to its length.
func unitDuration(unit string) time.Duration {
	switch unit[0] {
	case 'm':
		return time.Minute
	case 'h':
		return time.Hour
	case 'd':
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}
