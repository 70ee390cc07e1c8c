package ledger

import (
	"strings"
	"time"

	"github.com/talkincode/salesledger/internal/domain"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// ParseTimestamp accepts an ISO-8601 date or date-time in local time.
// A bare date resolves to midnight of that day.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	// time.Parse accepts fractional seconds the layout does not name, so the
	// length must match exactly.
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if len(value) != len(layout) {
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.InvalidInputf("timestamp %q is not YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS", value)
}

// normalizeTime stores instants in UTC at the database's precision so that
// range comparisons behave the same on every driver.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
