package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// AlignDayRange snaps a query range to whole UTC days: from down to the
// start of its day, to up to the end of its day. Swapped bounds are fixed.
func AlignDayRange(from, to time.Time) (time.Time, time.Time) {
    if to.Before(from) {
        from, to = to, from
    }
    fy, fm, fd := from.UTC().Date()
    ty, tm, td := to.UTC().Date()
    from = time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
    to = time.Date(ty, tm, td, 23, 59, 59, 0, time.UTC)
    return from, to
}

// No extra helpers here; use strconv where needed.