// Package parsing turns resume records and job postings into normalized feature profiles.
package parsing

import "strings"

// NormalizeSkill lower-cases and trims a skill string.
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// normalizeDegree lower-cases a degree string and drops dots so abbreviations
// like "B.S." and "Ph.D." compare as "bs" and "phd".
func normalizeDegree(degree string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(degree)), ".", "")
}
