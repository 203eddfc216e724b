package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatRupees renders an amount with Indian digit grouping, e.g.
// Rs. 1,23,456.50. The PDF core fonts have no rupee glyph.
func FormatRupees(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int64(amount)
	paise := int64((amount-float64(whole))*100 + 0.5)
	if paise == 100 {
		whole++
		paise = 0
	}
	return fmt.Sprintf("%sRs. %s.%02d", sign, groupIndian(whole), paise)
}

func groupIndian(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}
	head, tail := str[:len(str)-3], str[len(str)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
