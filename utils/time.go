package utils

import (
	"fmt"
	"time"
)

// Date-only timestamp that can be used directly as a go-arg flag
type Timestamp struct {
	t time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: TruncateToDay(t)}
}

func (ts *Timestamp) UnmarshalText(b []byte) error {
	if string(b) == "now" {
		ts.t = TruncateToDay(time.Now().UTC())
		return nil
	}

	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("Only the date-only format (\"YYYY-MM-DD\") is allowed. Got %s", b)
	}
	ts.t = t
	return nil
}

func (ts *Timestamp) Inner() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.t
	return &t
}

func (ts *Timestamp) Format(layout string) string {
	return ts.t.Format(layout)
}

type TimeSpan struct {
	From *time.Time
	To   *time.Time
}

// Widens the span by the given number of days on both ends. The remote store
// filters with strict comparisons on its side, so listing queries pad the
// window to keep the range inclusive.
func (t TimeSpan) Padded(days int) TimeSpan {
	out := TimeSpan{}
	if t.From != nil {
		from := t.From.AddDate(0, 0, -days)
		out.From = &from
	}
	if t.To != nil {
		to := t.To.AddDate(0, 0, days)
		out.To = &to
	}
	return out
}

// Drops the time-of-day component, keeping the calendar date in UTC
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
