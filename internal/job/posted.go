package job

import (
	"fmt"
	"time"
)

// Posted is the display form of a posting date.
type Posted struct {
	FullDate     string `json:"fullDate"`
	RelativeTime string `json:"relativeTime"`
}

// FormatPosted returns "Dec 10, 2024" plus a relative form that falls back to
// the full date once the posting is 30 days old.
func FormatPosted(posted, now time.Time) Posted {
	full := posted.Format("Jan 2, 2006")
	secs := int(now.Sub(posted).Seconds())

	var rel string
	switch {
	case secs < 60:
		rel = "just now"
	case secs < 3600:
		rel = plural(secs/60, "minute")
	case secs < 86400:
		rel = plural(secs/3600, "hour")
	case secs < 2592000:
		rel = plural(secs/86400, "day")
	default:
		rel = full
	}
	return Posted{FullDate: full, RelativeTime: rel}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
