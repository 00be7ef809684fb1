package duration

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"90", 90},
		{"0", 0},
		{"1:30", 90},
		{"1:02:03", 3723},
		{"0:0:5", 5},
		{"1h30m", 5400},
		{"25m", 1500},
		{"1.5s", 1},
		{" 45 ", 45},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			d, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			if got := d.TotalSeconds(); got != tc.want {
				t.Fatalf("Parse(%q).TotalSeconds() = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "1:2:3:4", "1:-2", "-1m", "1:xx"} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); err == nil {
				t.Fatalf("Parse(%q) should fail", in)
			}
		})
	}
}
