package receipt

import (
	"strings"
	"testing"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Zero"},
		{1, "One"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{42, "Forty Two"},
		{100, "One Hundred"},
		{101, "One Hundred One"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{1500, "One Thousand Five Hundred"},
		{99999, "Ninety Nine Thousand Nine Hundred Ninety Nine"},
		{100000, "One Lakh"},
		{150000, "One Lakh Fifty Thousand"},
		{1234567, "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven"},
		{10000000, "One Crore"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
	}
	for _, c := range cases {
		if got := AmountInWords(c.in); got != c.want {
			t.Errorf("AmountInWords(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAmountInWords_NoStrayConnectors(t *testing.T) {
	// Exact scale multiples must not leak empty words or doubled spaces.
	for _, n := range []int64{100, 1000, 100000, 10000000, 200000, 30000000} {
		got := AmountInWords(n)
		if strings.Contains(got, "  ") {
			t.Errorf("AmountInWords(%d) = %q contains a doubled space", n, got)
		}
		if strings.HasSuffix(got, " ") || strings.HasPrefix(got, " ") {
			t.Errorf("AmountInWords(%d) = %q has stray whitespace", n, got)
		}
	}
}
