package common

import (
	"strconv"
	"time"
)

/*Timestamp - seconds since epoch, as handed out by the chain clock */
type Timestamp int64

//TimeToString - return the time stamp as a string
func TimeToString(ts Timestamp) string {
	return strconv.FormatInt(int64(ts), 10)
}

//ToTime - converts the common.Timestamp to time.Time
func ToTime(ts Timestamp) time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

// Since returns the seconds elapsed from start to now, or 0 when the clock
// reads earlier than start.
func Since(now, start Timestamp) uint64 {
	if now <= start {
		return 0
	}
	return uint64(now - start)
}
