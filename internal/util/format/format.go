// Package format holds small human readable formatters shared by the
// printers and renderers.
package format

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Percent renders a progress value with one decimal, dropping a trailing ".0".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Elapsed renders a duration rounded to the second, e.g. "1m05s".
func Elapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

// TimeAgo renders how long ago t was, relative to now. Times in the future
// read as "now".
func TimeAgo(t, now time.Time) string {
	if t.After(now) {
		return "now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
