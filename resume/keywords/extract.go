package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extract returns the taxonomy terms that occur in text, compared
// case-insensitively, in taxonomy order and canonical spelling. A term is
// found when its name or any synonym matches. Blank text yields an empty
// slice.
func Extract(text string, taxonomy Taxonomy, mode MatchMode) []string {
	out := make([]string, 0)
	if strings.TrimSpace(text) == "" {
		return out
	}
	haystack := strings.ToLower(text)
	for _, term := range taxonomy.terms {
		if matches(haystack, term.Name, mode) {
			out = append(out, term.Name)
			continue
		}
		for _, syn := range term.Synonyms {
			if matches(haystack, syn, mode) {
				out = append(out, term.Name)
				break
			}
		}
	}
	return out
}

func matches(haystack, needle string, mode MatchMode) bool {
	needle = strings.ToLower(needle)
	if needle == "" {
		return false
	}
	if mode != MatchWord {
		return strings.Contains(haystack, needle)
	}
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		offset = start + size
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
