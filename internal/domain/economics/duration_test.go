package economics

import "testing"

func TestSplitMinutes(t *testing.T) {
	cases := []struct {
		total, h, m int
	}{
		{0, 0, 0},
		{-30, 0, 0},
		{45, 0, 45},
		{60, 1, 0},
		{150, 2, 30},
		{600, 10, 0},
	}
	for _, c := range cases {
		h, m := SplitMinutes(c.total)
		if h != c.h || m != c.m {
			t.Errorf("SplitMinutes(%d) = %d,%d, want %d,%d", c.total, h, m, c.h, c.m)
		}
	}
}

func TestHours(t *testing.T) {
	if got := Hours(90); got != 1.5 {
		t.Errorf("Hours(90) = %v, want 1.5", got)
	}
	if got := Hours(-10); got != 0 {
		t.Errorf("Hours(-10) = %v, want 0", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		total int
		want  string
	}{
		{150, "2ч 30м"},
		{120, "2ч"},
		{45, "45м"},
		{0, "0м"},
	}
	for _, c := range cases {
		if got := FormatMinutes(c.total); got != c.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", c.total, got, c.want)
		}
	}
}
