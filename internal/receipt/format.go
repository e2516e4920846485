package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIndianAmount renders a non-negative amount with two decimal places
// and Indian digit grouping: the last three integer digits form one group,
// everything before them is grouped in pairs. 1234567.5 → "12,34,567.50".
// Pure function of the input; no locale or timezone dependence.
func FormatIndianAmount(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)

	intPart := fixed
	fracPart := "00"
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart = fixed[:i]
		fracPart = fixed[i+1:]
	}

	return groupIndian(intPart) + "." + fracPart
}

// groupIndian inserts commas into a plain digit string using the
// last-3-then-pairs rule.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	head := digits[:n-3]
	tail := digits[n-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return strings.Join(groups, ",")
}
