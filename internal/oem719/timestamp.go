package oem719

import (
	"regexp"
	"strconv"
	"time"
)

// GPS epoch: the instant week/seconds pairs are measured from.
var gpsEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// Week numbers past this produce dates well beyond any plausible log and
// risk overflowing the duration arithmetic.
const maxGPSWeek = 10000

// TimestampLayout is the output timestamp format: 12-hour clock with
// meridiem, millisecond precision.
const TimestampLayout = "01/02/2006 03:04:05.000 PM"

// weekSecondsRe matches two consecutive comma-delimited numeric tokens,
// interpreted as GPS week number and seconds into the week. OEM719
// abbreviated-ASCII headers carry the pair in exactly this shape.
var weekSecondsRe = regexp.MustCompile(`,(\d+),(\d+\.\d+),`)

// TimestampResolver derives a per-line timestamp from embedded week/seconds
// fields, carrying the last derived value forward for lines that have none.
// With embedded extraction disabled it stamps every line with wall-clock
// time instead.
type TimestampResolver struct {
	embedded bool
	last     string
	now      func() time.Time
}

func NewTimestampResolver(embedded bool) *TimestampResolver {
	return &TimestampResolver{embedded: embedded, now: time.Now}
}

// Resolve returns the timestamp for line. It never fails: a line without a
// week/seconds pair gets the last derived timestamp, and if none has ever
// been derived (or derivation itself fails) the current wall-clock time.
func (r *TimestampResolver) Resolve(line string) string {
	if r.embedded {
		if m := weekSecondsRe.FindStringSubmatch(line); m != nil {
			if ts, ok := formatGPSTime(m[1], m[2]); ok {
				r.last = ts
				return ts
			}
		}
		if r.last != "" {
			return r.last
		}
	}
	return r.now().Format(TimestampLayout)
}

func formatGPSTime(weekStr, secondsStr string) (string, bool) {
	week, err := strconv.Atoi(weekStr)
	if err != nil || week < 0 || week > maxGPSWeek {
		return "", false
	}
	seconds, err := strconv.ParseFloat(secondsStr, 64)
	if err != nil || seconds < 0 {
		return "", false
	}

	whole := int64(seconds)
	frac := seconds - float64(whole)
	d := time.Duration(week)*7*24*time.Hour +
		time.Duration(whole)*time.Second +
		time.Duration(frac*float64(time.Second))
	return gpsEpoch.Add(d).Format(TimestampLayout), true
}
