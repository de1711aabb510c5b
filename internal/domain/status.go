package domain

import "strings"

var monthLabels = map[int]string{
	1:  "January",
	2:  "February",
	3:  "March",
	4:  "April",
	5:  "May",
	6:  "June",
	7:  "July",
	8:  "August",
	9:  "September",
	10: "October",
	11: "November",
	12: "December",
}

var monthNumbers = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

// MonthLabel returns the English month name for a 1-based month number.
func MonthLabel(month int) string {
	if label, ok := monthLabels[month]; ok {
		return label
	}

	return ""
}

// ParseMonth returns the month number for a given month name (case-insensitive).
func ParseMonth(label string) (int, bool) {
	month, ok := monthNumbers[strings.ToLower(strings.TrimSpace(label))]

	return month, ok
}
