package view

import (
	"strconv"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// TimeAgo formats the age of t at now using the largest whole unit: seconds,
// minutes, hours, days, weeks, 30-day months or 365-day years. Future times
// read as "0s ago".
func TimeAgo(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return ago(d/time.Second, "s")
	case d < time.Hour:
		return ago(d/time.Minute, "m")
	case d < day:
		return ago(d/time.Hour, "h")
	case d < week:
		return ago(d/day, "d")
	// 28 and 29 days still read in weeks.
	case d < month:
		return ago(d/week, "w")
	case d < year:
		return ago(d/month, "mo")
	default:
		return ago(d/year, "y")
	}
}

func ago(n time.Duration, unit string) string {
	return strconv.FormatInt(int64(n), 10) + unit + " ago"
}
