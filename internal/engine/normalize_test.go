package engine

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		display string
	}{
		{name: "integer", in: 42, display: "42"},
		{name: "negative fraction", in: -2.5, display: "-2.5"},
		{name: "one third rounds at eleventh place", in: 1.0 / 3, display: "0.33333333333"},
		{name: "two thirds rounds up", in: 2.0 / 3, display: "0.66666666667"},
		{name: "float noise is dropped", in: 0.1 + 0.2, display: "0.3"},
		{name: "large integer part keeps fewer decimals", in: 123456789.123456, display: "123456789.123"},
		{name: "twelve digit integer", in: 999999999999, display: "999999999999"},
		{name: "tiny value rounds to zero", in: 1e-20, display: "0"},
		{name: "no exponent form", in: 1e-7, display: "0.0000001"},
		{name: "exact tie rounds half to even", in: 12345678901.25, display: "12345678901.2"},
		{name: "exact tie rounds up to even", in: 12345678901.75, display: "12345678901.8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, buf := normalize(tc.in)
			if got := buf.Render(); got != tc.display {
				t.Fatalf("expected display %q, got %q", tc.display, got)
			}
			if buf.Len() > MaxDigitCount {
				t.Fatalf("expected at most %d digits, got %d", MaxDigitCount, buf.Len())
			}
			if got := FormatNumber(v); got != tc.display {
				t.Fatalf("expected committed value to format as %q, got %q", tc.display, got)
			}
		})
	}
}

func TestNormalizeOneThirdHasTwelveDigits(t *testing.T) {
	_, buf := normalize(1.0 / 3)

	if buf.Len() != MaxDigitCount {
		t.Fatalf("expected %d digits, got %d", MaxDigitCount, buf.Len())
	}
	if buf.Point() != 1 {
		t.Fatalf("expected point after the first digit, got %d", buf.Point())
	}
}

func TestNormalizeOverflow(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "thirteen integer digits", in: 1234567890123, want: math.Inf(1)},
		{name: "negative thirteen integer digits", in: -1234567890123, want: math.Inf(-1)},
		{name: "rounding carries past width", in: 999999999999.6, want: math.Inf(1)},
		{name: "infinity stays", in: math.Inf(-1), want: math.Inf(-1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, buf := normalize(tc.in)
			if v != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, v)
			}
			if !buf.Empty() {
				t.Fatalf("expected empty buffer, got %q", buf.Render())
			}
		})
	}
}

func TestNormalizeNaNStaysNaN(t *testing.T) {
	v, buf := normalize(math.NaN())

	if !math.IsNaN(v) {
		t.Fatalf("expected NaN, got %v", v)
	}
	if !buf.Empty() {
		t.Fatalf("expected empty buffer, got %q", buf.Render())
	}
	if got := FormatNumber(v); got != "NaN" {
		t.Fatalf("expected %q, got %q", "NaN", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: math.Inf(1), want: "Infinity"},
		{in: math.Inf(-1), want: "-Infinity"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: -8, want: "-8"},
		{in: 0.5, want: "0.5"},
	}

	for _, tc := range tests {
		if got := FormatNumber(tc.in); got != tc.want {
			t.Fatalf("FormatNumber(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
