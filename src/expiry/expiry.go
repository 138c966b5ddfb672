package expiry

import (
	"fmt"
	"math"
	"time"

	"github.com/jiaming2012/quote-builder/src/eventmodels"
)

const (
	WireLayout       = "2006-01-02T15:04:05"
	WireMillisLayout = "2006-01-02T15:04:05.000Z"
	TimeOfDayLayout  = "15:04:05"

	GoodTillCanceled = "Good Till Canceled"
	Expired          = "Expired"
)

// InputLayouts are tried in order by ParseTimestamp.
var InputLayouts = []string{
	WireMillisLayout,
	WireLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses s as a UTC instant using the first matching layout in InputLayouts.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range InputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("ParseTimestamp: %q: %w", s, eventmodels.ErrInvalidExpiry)
}

func FormatWire(t time.Time) string {
	return t.UTC().Format(WireLayout)
}

func FormatWireMillis(t time.Time) string {
	return t.UTC().Format(WireMillisLayout)
}

// QuoteExpiry is how long the quote itself stays valid. Zero minutes means good-till-canceled;
// the returned timestamp is then just now and carries no meaning.
func QuoteExpiry(minutes uint16, now time.Time) (string, bool) {
	return FormatWire(now.Add(time.Duration(minutes) * time.Minute)), minutes == 0
}

func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil || len(s) != len(TimeOfDayLayout) {
		return 0, fmt.Errorf("ParseTimeOfDay: %q: %w", s, eventmodels.ErrInvalidTimeOfDay)
	}

	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, nil
}

// TradeExpiry combines the calendar date of expiry with timeOfDay in loc and returns the UTC instant.
func TradeExpiry(expiry string, timeOfDay string, loc *time.Location) (time.Time, error) {
	parsed, err := ParseTimestamp(expiry)
	if err != nil {
		return time.Time{}, fmt.Errorf("TradeExpiry: %w", err)
	}

	return atTimeOfDay(parsed, timeOfDay, loc)
}

// RederiveTradeExpiry keeps the contract date of a stored expiry, as seen in from where it was booked,
// and sets timeOfDay in to on that date.
func RederiveTradeExpiry(stored string, from *time.Location, timeOfDay string, to *time.Location) (time.Time, error) {
	parsed, err := ParseTimestamp(stored)
	if err != nil {
		return time.Time{}, fmt.Errorf("RederiveTradeExpiry: %w", err)
	}

	if from == nil {
		from = time.UTC
	}

	return atTimeOfDay(parsed.In(from), timeOfDay, to)
}

func atTimeOfDay(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	offset, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := date.Date()
	hour := int(offset / time.Hour)
	minute := int((offset % time.Hour) / time.Minute)
	second := int((offset % time.Minute) / time.Second)

	return time.Date(y, m, d, hour, minute, second, 0, loc).UTC(), nil
}

// ExpirationFromTTM adds ttmDays to start, rounded to whole seconds.
func ExpirationFromTTM(start time.Time, ttmDays float64) time.Time {
	seconds := math.Round(ttmDays * 86400)
	return start.Add(time.Duration(seconds) * time.Second)
}

// TimeRemaining renders the time left on a quote as HH:MM:SS.
func TimeRemaining(expiry string, gtc bool, now time.Time) (string, error) {
	if gtc {
		return GoodTillCanceled, nil
	}

	t, err := ParseTimestamp(expiry)
	if err != nil {
		return "", fmt.Errorf("TimeRemaining: %w", err)
	}

	left := t.Sub(now)
	if left <= 0 {
		return Expired, nil
	}

	left = left.Truncate(time.Second)
	hours := int(left / time.Hour)
	minutes := int((left % time.Hour) / time.Minute)
	seconds := int((left % time.Minute) / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds), nil
}

func IsOlderThan24Hours(created time.Time, now time.Time) bool {
	return now.Sub(created) > 24*time.Hour
}
