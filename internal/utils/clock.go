package utils

import "time"

// Now returns the current UTC time truncated to the microsecond precision
// the database columns keep, so values round-trip unchanged.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
