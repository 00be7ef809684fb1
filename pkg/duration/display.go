package duration

import "fmt"

// Display is the hours/minutes/seconds decomposition of a remaining count.
// It is always derived from the count, never stored alongside it.
type Display struct {
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Split decomposes total seconds. Negative input is treated as 0.
func Split(total int64) Display {
	if total < 0 {
		total = 0
	}
	return Display{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Total is the inverse of Split.
func (d Display) Total() int64 {
	return d.Hours*3600 + d.Minutes*60 + d.Seconds
}

// String renders HH:MM:SS. Hours grow past two digits when needed.
func (d Display) String() string {
	return Pad(d.Hours) + ":" + Pad(d.Minutes) + ":" + Pad(d.Seconds)
}

// Pad renders n with at least two digits.
func Pad(n int64) string {
	return fmt.Sprintf("%02d", n)
}
