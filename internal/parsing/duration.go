package parsing

import (
	"strconv"
	"strings"
)

// defaultEntryMonths is credited for an experience entry whose duration cannot be parsed.
const defaultEntryMonths = 3

var dashes = strings.NewReplacer("–", "-", "—", "-")

// durationMonths parses a "YYYY/MM - YYYY/MM" range into whole months, at least 1.
// Anything else, including open ranges like "2024/01 - Present", counts as defaultEntryMonths.
func durationMonths(duration string) int {
	parts := strings.Split(dashes.Replace(duration), "-")
	if len(parts) != 2 {
		return defaultEntryMonths
	}

	startYear, startMonth, ok := parseYearMonth(parts[0])
	if !ok {
		return defaultEntryMonths
	}
	endYear, endMonth, ok := parseYearMonth(parts[1])
	if !ok {
		return defaultEntryMonths
	}

	months := (endYear-startYear)*12 + (endMonth - startMonth)
	if months < 1 {
		return 1
	}
	return months
}

func parseYearMonth(s string) (year, month int, ok bool) {
	fields := strings.Split(strings.TrimSpace(s), "/")
	if len(fields) != 2 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}
