package duration

import "testing"

func TestSplit_RoundTrip(t *testing.T) {
	for total := int64(0); total < 3*3600+10; total++ {
		d := Split(total)
		if got := d.Total(); got != total {
			t.Fatalf("Split(%d).Total() = %d", total, got)
		}
		if d.Minutes > 59 || d.Seconds > 59 {
			t.Fatalf("Split(%d) = %+v: minutes/seconds out of range", total, d)
		}
	}
	for _, total := range []int64{359999, 360000, 1 << 40} {
		if got := Split(total).Total(); got != total {
			t.Fatalf("Split(%d).Total() = %d", total, got)
		}
	}
}

func TestSplit_Negative(t *testing.T) {
	if d := Split(-5); d != (Display{}) {
		t.Fatalf("Split(-5) = %+v, want zero", d)
	}
}

func TestDisplayString(t *testing.T) {
	cases := []struct {
		total int64
		want  string
	}{
		{0, "00:00:00"},
		{5, "00:00:05"},
		{90, "00:01:30"},
		{3661, "01:01:01"},
		{42, "00:00:42"},
		{360000, "100:00:00"},
	}
	for _, tc := range cases {
		if got := Split(tc.total).String(); got != tc.want {
			t.Fatalf("Split(%d).String() = %q, want %q", tc.total, got, tc.want)
		}
	}
}

func TestPad(t *testing.T) {
	if Pad(0) != "00" || Pad(7) != "07" || Pad(59) != "59" || Pad(123) != "123" {
		t.Fatal("Pad should zero-pad to two digits")
	}
}

func TestDurationString_Normalizes(t *testing.T) {
	if got := New(0, 90, 0).String(); got != "01:30:00" {
		t.Fatalf("New(0,90,0).String() = %q, want 01:30:00", got)
	}
}
