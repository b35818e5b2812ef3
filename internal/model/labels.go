package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a field name such as "classForAdmission" or
// "student_birthday" into "Class For Admission" / "Student Birthday".
func DefaultLabeler(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var words []string
	var current []rune
	flush := func() {
		if len(current) == 0 {
			return
		}
		word := strings.ToLower(string(current))
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words = append(words, string(runes))
		current = current[:0]
	}

	var prev rune
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			current = append(current, r)
		case i > 0 && ((unicode.IsDigit(r) && unicode.IsLetter(prev)) || (unicode.IsLetter(r) && unicode.IsDigit(prev))):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()
	return strings.Join(words, " ")
}
