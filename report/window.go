package report

import "time"

// Window is the recency window: items added between LastDate and Now
// (both inclusive, unix seconds) qualify for the digest.
type Window struct {
	Now      int64
	LastDate int64
}

// NewWindow builds a window covering the last days*24h counted back
// from now.
func NewWindow(now time.Time, days int) Window {
	ts := now.Unix()
	return Window{
		Now:      ts,
		LastDate: ts - int64(days)*86400,
	}
}

// Contains reports whether a timestamp falls inside the window.
// Both bounds are inclusive.
func (w Window) Contains(ts int64) bool {
	return w.LastDate <= ts && ts <= w.Now
}
