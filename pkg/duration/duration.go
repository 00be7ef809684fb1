// Package duration holds the user-entered hours/minutes/seconds of a
// countdown and converts between that form and a flat count of seconds.
//
// The package has no timing behavior. Input is sanitized at this boundary:
// empty input leaves a field unset, anything else is coerced to a
// non-negative integer. Minutes and seconds are not normalized, so
// {0, 90, 0} is a valid Duration of 5400 seconds.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxFieldValue caps a single field so that TotalSeconds cannot overflow.
const MaxFieldValue = math.MaxInt64 / (3 * 3600)

// Name identifies one of the three fields of a Duration.
type Name string

const (
	Hours   Name = "hours"
	Minutes Name = "minutes"
	Seconds Name = "seconds"
)

// ParseName maps user-facing field names ("hours", "h", "min", ...) to a Name.
func ParseName(s string) (Name, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hours", "hour", "h":
		return Hours, nil
	case "minutes", "minute", "min", "m":
		return Minutes, nil
	case "seconds", "second", "sec", "s":
		return Seconds, nil
	}
	return "", fmt.Errorf("unknown duration field %q", s)
}

// Field is one component of a Duration. The zero value is a set 0.
// A field left empty while the user is typing is unset; it counts as 0.
type Field struct {
	value int64
	unset bool
}

// Value returns the field as an integer, 0 when unset.
func (f Field) Value() int64 {
	if f.unset {
		return 0
	}
	return f.value
}

// IsSet reports whether the field holds a number (as opposed to empty input).
func (f Field) IsSet() bool { return !f.unset }

// String renders the field the way an input box shows it: empty when unset.
func (f Field) String() string {
	if f.unset {
		return ""
	}
	return strconv.FormatInt(f.value, 10)
}

// Set returns a field holding n, clamped to [0, MaxFieldValue].
func Set(n int64) Field {
	if n < 0 {
		n = 0
	}
	if n > MaxFieldValue {
		n = MaxFieldValue
	}
	return Field{value: n}
}

// Unset returns the empty-input marker.
func Unset() Field { return Field{unset: true} }

// Coerce turns raw input into a Field. Empty input yields Unset; numeric
// input is truncated toward zero and clamped; non-numeric input becomes 0.
func Coerce(raw string) Field {
	if raw == "" {
		return Unset()
	}
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Set(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return Set(0)
	}
	if f >= float64(MaxFieldValue) {
		return Set(MaxFieldValue)
	}
	return Set(int64(f))
}

// Duration is the hours/minutes/seconds a countdown starts from.
type Duration struct {
	Hours   Field
	Minutes Field
	Seconds Field
}

// New returns a Duration with all three fields set.
func New(h, m, s int64) Duration {
	return Duration{Hours: Set(h), Minutes: Set(m), Seconds: Set(s)}
}

// FromSeconds splits total into hours, minutes and seconds.
func FromSeconds(total int64) Duration {
	d := Split(total)
	return New(d.Hours, d.Minutes, d.Seconds)
}

// SetField stores raw user input into the named field. See Coerce.
func (d *Duration) SetField(name Name, raw string) error {
	f := Coerce(raw)
	switch name {
	case Hours:
		d.Hours = f
	case Minutes:
		d.Minutes = f
	case Seconds:
		d.Seconds = f
	default:
		return fmt.Errorf("unknown duration field %q", name)
	}
	return nil
}

// Field returns the named field.
func (d Duration) Field(name Name) Field {
	switch name {
	case Hours:
		return d.Hours
	case Minutes:
		return d.Minutes
	default:
		return d.Seconds
	}
}

// TotalSeconds returns hours*3600 + minutes*60 + seconds, unset fields as 0.
func (d Duration) TotalSeconds() int64 {
	return d.Hours.Value()*3600 + d.Minutes.Value()*60 + d.Seconds.Value()
}

// Reset sets all three fields back to 0.
func (d *Duration) Reset() {
	*d = Duration{}
}

// IsZero reports whether the duration amounts to no time at all.
func (d Duration) IsZero() bool { return d.TotalSeconds() <= 0 }

// String renders the duration as HH:MM:SS after normalizing it.
func (d Duration) String() string { return Split(d.TotalSeconds()).String() }
