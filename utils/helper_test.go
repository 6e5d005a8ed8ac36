package utils

import "testing"

func TestFormatBatterySnapshot(t *testing.T) {
	cases := []struct {
		in   []float64
		want string
	}{
		{[]float64{87.5, 12.25}, "87.50,12.25"},
		{[]float64{100}, "100.00"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := FormatBatterySnapshot(c.in); got != c.want {
			t.Errorf("FormatBatterySnapshot(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("rider@example.com") {
		t.Error("expected rider@example.com to be valid")
	}
	if IsValidEmail("not-an-email") {
		t.Error("expected not-an-email to be invalid")
	}
}
