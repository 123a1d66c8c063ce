package refdb

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the lookup key for a name: compatibility-normalised,
// accent-stripped, lowercased, with runs of whitespace collapsed.
// "Jalapeño  Peppers" and "jalapeno peppers" fold to the same key.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// transform chains carry state, so one is built per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Lemmatize reduces the head (last) word of a name to its singular form,
// e.g. "tomatoes" -> "tomato", "roasted peanuts" -> "roasted peanut".
// The result is folded.
func Lemmatize(word string) string {
	words := strings.Fields(Fold(word))
	if len(words) == 0 {
		return ""
	}
	last := len(words) - 1
	words[last] = inflection.Singular(words[last])
	return strings.Join(words, " ")
}

// minContainLen is the shortest needle ContainsWordPrefix will accept.
// Shorter needles ("tea", "oil" are fine; "ai", "an" are not) match nearly anything.
const minContainLen = 3

// ContainsWordPrefix reports whether needle occurs in hay starting on a word
// boundary. Both arguments are expected to be folded. The boundary rule keeps
// "tea" from matching inside "steak" while still letting "gelatin" match
// "beef gelatine". Fuzzy scans try it before ContainsPart.
func ContainsWordPrefix(hay, needle string) bool {
	if utf8.RuneCountInString(needle) < minContainLen || len(needle) > len(hay) {
		return false
	}
	for from := 0; from <= len(hay)-len(needle); {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(hay[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		_, size := utf8.DecodeRuneInString(hay[i:])
		from = i + size
	}
	return false
}

// minPartLen is the shortest needle ContainsPart will accept. Three-letter
// keys are too common inside words ("ham" in "champignons").
const minPartLen = 4

// ContainsPart reports whether needle occurs anywhere in hay, including inside
// a word ("milk" in "wholemilk powder"). Needles shorter than minPartLen never
// match.
func ContainsPart(hay, needle string) bool {
	if utf8.RuneCountInString(needle) < minPartLen {
		return false
	}
	return strings.Contains(hay, needle)
}
