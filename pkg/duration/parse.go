package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse reads a duration from command-line or config text. Accepted forms:
//
//	"90"       seconds
//	"1:30"     minutes:seconds
//	"1:02:03"  hours:minutes:seconds
//	"1h30m"    Go duration syntax, truncated to whole seconds
//
// Unlike SetField, Parse is strict: malformed or negative text is an error.
func Parse(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, fmt.Errorf("empty duration")
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return Duration{}, fmt.Errorf("invalid duration %q: too many fields", s)
		}
		vals := make([]int64, 3)
		offset := 3 - len(parts)
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil || n < 0 {
				return Duration{}, fmt.Errorf("invalid duration %q: bad field %q", s, p)
			}
			vals[offset+i] = n
		}
		return New(vals[0], vals[1], vals[2]), nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return Duration{}, fmt.Errorf("invalid duration %q: negative", s)
		}
		return New(0, 0, n), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return Duration{}, fmt.Errorf("invalid duration %q: negative", s)
	}
	return FromSeconds(int64(d / time.Second)), nil
}
