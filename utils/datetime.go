// utils/datetime.go
package utils

import (
	"strconv"
	"strings"
	"time"
)

// BrazilTZ is the fixed GMT-3 offset the dashboard reports in. The sales org
// runs on Brasília time and DST was abolished, so a fixed zone is enough.
var BrazilTZ = time.FixedZone("GMT-3", -3*60*60)

// TodayBrazilStartUTC returns the start of the current Brazil day (00:00
// GMT-3) expressed in UTC.
func TodayBrazilStartUTC() time.Time {
	nowBrazil := time.Now().In(BrazilTZ)
	start := time.Date(nowBrazil.Year(), nowBrazil.Month(), nowBrazil.Day(), 0, 0, 0, 0, BrazilTZ)
	return start.UTC()
}

// WeekStartBrazilUTC returns the start of the current week (Sunday 00:00
// GMT-3) expressed in UTC.
func WeekStartBrazilUTC() time.Time {
	nowBrazil := time.Now().In(BrazilTZ)
	daysSinceSunday := int(nowBrazil.Weekday())
	start := time.Date(nowBrazil.Year(), nowBrazil.Month(), nowBrazil.Day(), 0, 0, 0, 0, BrazilTZ)
	start = start.AddDate(0, 0, -daysSinceSunday)
	return start.UTC()
}

// MonthStartBrazilUTC returns the start of the current month (day 1, 00:00
// GMT-3) expressed in UTC.
func MonthStartBrazilUTC() time.Time {
	nowBrazil := time.Now().In(BrazilTZ)
	start := time.Date(nowBrazil.Year(), nowBrazil.Month(), 1, 0, 0, 0, 0, BrazilTZ)
	return start.UTC()
}

// ParseHubSpotTimestamp accepts the two shapes HubSpot delivers date
// properties in: RFC 3339 strings and unix-millisecond strings.
func ParseHubSpotTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// BrazilDay formats t as the Brazil-local calendar day (YYYY-MM-DD).
func BrazilDay(t time.Time) string {
	return t.In(BrazilTZ).Format("2006-01-02")
}
