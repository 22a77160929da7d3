package ioutil

import "time"

// processStart anchors NowMillis; time.Since measures against the
// runtime's monotonic clock reading captured in processStart, so
// NowMillis is immune to wall-clock adjustments (NTP steps, manual
// clock changes) the way a raw time.Now().UnixMilli() would not be.
var processStart = time.Now()

// NowMillis returns milliseconds elapsed since process start, on a
// monotonic clock. Suitable for idle-timeout bookkeeping, not for
// display.
func NowMillis() int64 {
	return time.Since(processStart).Milliseconds()
}
