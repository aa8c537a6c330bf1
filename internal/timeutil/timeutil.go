// Package timeutil fixes the timezone used for externally surfaced timestamps.
//
// The scheduler and stores operate on UTC internally; only at the presentation
// boundary (API responses, persisted prediction records) are timestamps
// rendered in the dashboard's fixed UTC+05:00 offset, independent of the host
// timezone.
package timeutil

import "time"

// DisplayZone is the fixed offset applied to all externally surfaced timestamps.
var DisplayZone = time.FixedZone("UTC+05:00", 5*60*60)

// Display converts t to the fixed display offset.
func Display(t time.Time) time.Time {
	return t.In(DisplayZone)
}

// Format renders t in RFC 3339 at the fixed display offset.
func Format(t time.Time) string {
	return t.In(DisplayZone).Format(time.RFC3339)
}

// Parse reads an RFC 3339 timestamp as written by Format.
func Parse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
