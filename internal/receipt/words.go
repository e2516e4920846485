package receipt

import "strings"

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords converts a non-negative integer to English words on the
// Indian scale: Hundred, Thousand, Lakh (10^5), Crore (10^7). Exact
// multiples of a scale unit carry no trailing connector words:
// 100000 → "One Lakh", 150000 → "One Lakh Fifty Thousand".
func AmountInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + AmountInWords(-n)
	}
	return strings.Join(words(n), " ")
}

func words(n int64) []string {
	switch {
	case n < 20:
		return []string{onesWords[n]}
	case n < 100:
		out := []string{tensWords[n/10]}
		if rem := n % 10; rem != 0 {
			out = append(out, onesWords[rem])
		}
		return out
	case n < 1000:
		out := append(words(n/100), "Hundred")
		if rem := n % 100; rem != 0 {
			out = append(out, words(rem)...)
		}
		return out
	case n < 100000:
		out := append(words(n/1000), "Thousand")
		if rem := n % 1000; rem != 0 {
			out = append(out, words(rem)...)
		}
		return out
	case n < 10000000:
		out := append(words(n/100000), "Lakh")
		if rem := n % 100000; rem != 0 {
			out = append(out, words(rem)...)
		}
		return out
	default:
		out := append(words(n/10000000), "Crore")
		if rem := n % 10000000; rem != 0 {
			out = append(out, words(rem)...)
		}
		return out
	}
}
