// Package snippet cuts bounded context windows around keyword mentions.
package snippet

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultWindow = 100
	DefaultMax    = 10
)

// Matcher finds case-insensitive occurrences of one keyword. It is safe for
// concurrent use.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles a matcher for keyword. Any run of whitespace in the
// text matches a single space in the keyword, and a hit must not touch a
// letter or digit on either side. A blank keyword yields a matcher that
// never matches.
func NewMatcher(keyword string) *Matcher {
	words := strings.Fields(keyword)
	if len(words) == 0 {
		return &Matcher{}
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return &Matcher{re: regexp.MustCompile(`(?i)` + strings.Join(quoted, `\s+`))}
}

// Count returns the number of non-overlapping occurrences in text.
func (m *Matcher) Count(text string) int {
	if m.re == nil || text == "" {
		return 0
	}
	return len(m.find(text))
}

// find returns the non-overlapping whole-word occurrences in text. A hit
// glued to a letter or digit is dropped and the scan resumes one rune
// further, so an overlapping standalone hit is still found.
func (m *Matcher) find(text string) [][2]int {
	var out [][2]int
	for pos := 0; pos < len(text); {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end > start && standalone(text, start, end) {
			out = append(out, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + max(size, 1)
	}
	return out
}

func standalone(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Extract returns up to limit spans around the occurrences in text. Each
// span carries window/2 characters on either side of the match. Spans never
// overlap: an occurrence inside the previous span is skipped.
func (m *Matcher) Extract(text string, window, limit int) []string {
	if m.re == nil || text == "" || limit <= 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultWindow
	}

	half := window / 2
	var spans []string
	end := 0
	for _, loc := range m.find(text) {
		if len(spans) >= limit {
			break
		}
		if loc[0] < end {
			continue
		}
		start := backRunes(text, loc[0], half)
		if start < end {
			start = end
		}
		stop := forwardRunes(text, loc[1], half)
		if span := strings.TrimSpace(text[start:stop]); span != "" {
			spans = append(spans, span)
		}
		end = stop
	}
	return spans
}

// Count is a one-shot helper around NewMatcher(keyword).Count.
func Count(text, keyword string) int {
	return NewMatcher(keyword).Count(text)
}

// Extract is a one-shot helper around NewMatcher(keyword).Extract. No match
// yields an empty result, never an error.
func Extract(text, keyword string, window, limit int) []string {
	return NewMatcher(keyword).Extract(text, window, limit)
}

func backRunes(s string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

func forwardRunes(s string, i, n int) int {
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
