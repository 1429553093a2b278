package skills

import "strings"

// Find locates keyword in text. Both are expected in lower case.
//
// The keyword matches anywhere as a substring, so "go" is found in "golang" and "java" in
// "javascript". On a miss, text and keyword are compared again with spaces removed ("powerbi"
// finds "power bi"); that match reports position -1 since it has no offset in text.
func Find(text, keyword string) (int, bool) {
	if keyword == "" || text == "" {
		return -1, false
	}
	if i := strings.Index(text, keyword); i >= 0 {
		return i, true
	}
	if strings.Contains(stripSpaces(text), stripSpaces(keyword)) {
		return -1, true
	}
	return -1, false
}

// Contains reports whether keyword occurs in text under the rules of Find.
func Contains(text, keyword string) bool {
	_, ok := Find(text, keyword)
	return ok
}

// ContainsWord reports whether word occurs in text delimited by non-alphanumeric characters.
// It is meant for short abbreviations such as degree names.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset <= len(text)-len(word); {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		i += offset
		end := i + len(word)
		if (i == 0 || !isAlnum(text[i-1])) && (end == len(text) || !isAlnum(text[end])) {
			return true
		}
		offset = i + 1
	}
	return false
}

// Context returns up to window characters on each side of the match at pos.
// A negative pos yields an empty context.
func Context(text string, pos, length, window int) string {
	if pos < 0 || pos > len(text) {
		return ""
	}
	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + length + window
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

var spaces = strings.NewReplacer(" ", "")

func stripSpaces(s string) string {
	return spaces.Replace(s)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isLetter(b) || (b >= '0' && b <= '9')
}
