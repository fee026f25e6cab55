package web

import "time"

// deadlineForWrite bounds a single frame write to a slow client.
func deadlineForWrite() time.Time {
	return time.Now().Add(10 * time.Second)
}

// noDeadline returns the zero time, disabling any deadline.
func noDeadline() time.Time {
	return time.Time{}
}
