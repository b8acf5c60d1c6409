package state

import "time"

// Window is the [Start, End) interval processed by one run.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the window length in calendar days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// Advance computes the query window for a run and the watermark to persist once
// the window is fixed. The window is always exactly one calendar day starting at
// the previous watermark; the next watermark is the window end, so consecutive
// successful saves never overlap or skip.
func Advance(watermark time.Time) (Window, time.Time) {
	end := watermark.AddDate(0, 0, 1)
	return Window{Start: watermark, End: end}, end
}
