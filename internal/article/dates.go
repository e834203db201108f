package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// DateParseError indicates one unparsable date element. It is isolated
// to that field: other dates on the document are unaffected.
type DateParseError struct {
	Field string // pub-type or date-type of the failing element
	Raw   string // raw day/month/year text
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparsable date %q for %s", e.Raw, e.Field)
}

// OrderAnomaly reports a pair of history/publication dates out of
// expected order.
type OrderAnomaly struct {
	Earlier string // field expected to come first
	Later   string // field expected to come after
}

func (o OrderAnomaly) String() string {
	return fmt.Sprintf("%s after %s", o.Earlier, o.Later)
}

// PubDate returns the publication date with the given pub-type
// attribute (e.g. "epub", "collection").
func (a *Article) PubDate(pubType string) (time.Time, error) {
	for _, e := range a.find(pathPubDate) {
		if e.SelectAttrValue("pub-type", "") == pubType {
			return parseDateElement(e, pubType)
		}
	}
	return time.Time{}, &DateParseError{Field: pubType, Raw: ""}
}

// HistoryDate returns the history date with the given date-type
// attribute (e.g. "received", "accepted").
func (a *Article) HistoryDate(dateType string) (time.Time, error) {
	for _, e := range a.find(pathHistoryDate) {
		if e.SelectAttrValue("date-type", "") == dateType {
			return parseDateElement(e, dateType)
		}
	}
	return time.Time{}, &DateParseError{Field: dateType, Raw: ""}
}

// parseDateElement parses the optional day/month/year children of a
// date element.
//
// With a day present the three fields parse as numeric day month year.
// With only a month, numeric parsing is tried first and word-month
// parsing second (older documents spell the month out). With only a
// year, the bare year parses alone. An element with none of the three
// fails for that field only.
func parseDateElement(e *etree.Element, field string) (time.Time, error) {
	day := childText(e, "day")
	month := childText(e, "month")
	year := childText(e, "year")

	switch {
	case day != "":
		raw := day + " " + month + " " + year
		t, err := time.Parse("2 1 2006", raw)
		if err != nil {
			return time.Time{}, &DateParseError{Field: field, Raw: raw}
		}
		return t, nil
	case month != "":
		raw := month + " " + year
		if t, err := time.Parse("1 2006", raw); err == nil {
			return t, nil
		}
		if t, err := time.Parse("January 2006", raw); err == nil {
			return t, nil
		}
		if t, err := time.Parse("Jan 2006", raw); err == nil {
			return t, nil
		}
		return time.Time{}, &DateParseError{Field: field, Raw: raw}
	case year != "":
		t, err := time.Parse("2006", year)
		if err != nil {
			return time.Time{}, &DateParseError{Field: field, Raw: year}
		}
		return t, nil
	default:
		return time.Time{}, &DateParseError{Field: field, Raw: ""}
	}
}

// CheckDateOrder validates received <= accepted <= epub, returning one
// anomaly per out-of-order pair. Missing or unparsable dates are skipped
// rather than reported here.
func (a *Article) CheckDateOrder() []OrderAnomaly {
	type dated struct {
		name string
		t    time.Time
		ok   bool
	}

	fields := []dated{
		{name: "received"},
		{name: "accepted"},
		{name: "epub"},
	}
	for i := range fields {
		var t time.Time
		var err error
		if fields[i].name == "epub" {
			t, err = a.PubDate(fields[i].name)
		} else {
			t, err = a.HistoryDate(fields[i].name)
		}
		fields[i].t, fields[i].ok = t, err == nil
	}

	var anomalies []OrderAnomaly
	prev := dated{}
	for _, f := range fields {
		if !f.ok {
			continue
		}
		if prev.ok && f.t.Before(prev.t) {
			anomalies = append(anomalies, OrderAnomaly{Earlier: prev.name, Later: f.name})
		}
		prev = f
	}
	return anomalies
}

func childText(e *etree.Element, tag string) string {
	c := e.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
