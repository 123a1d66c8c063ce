package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/ingredo/pkg/ingredo/stoplist"
)

var (
	// "(E150a)", "( e 322 )"
	parenAdditive = regexp.MustCompile(`(?i)\(\s*e\s?\d+[a-z]?\s*\)`)
	// "12%", "2.5 %", "0,5%"
	percentage = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*%`)
	// Compound joiners: "salt and pepper", "oil & vinegar", "rice with herbs".
	joiner       = regexp.MustCompile(`(?i)\s+(?:and|&|with)\s+`)
	bareAdditive = regexp.MustCompile(`(?i)^e\d+$`)

	strayPunct = strings.NewReplacer("*", " ", "•", " ", "·", " ", ":", " ")
)

// Leading words that qualify an ingredient rather than name it.
var noisePrefixes = []string{"contains", "including", "with", "from"}

// Tokenizer splits an ingredient list into candidate tokens.
// It holds no per-call state and is safe for concurrent use.
type Tokenizer struct {
	noise *stoplist.Manager
}

// NewTokenizer creates a tokenizer filtering with the given noise list.
// A nil list falls back to the builtin terms.
func NewTokenizer(noise *stoplist.Manager) *Tokenizer {
	if noise == nil {
		noise = stoplist.NewManager(nil)
	}
	return &Tokenizer{noise: noise}
}

// Process extracts the ingredient section of a transcript and tokenizes it.
func (t *Tokenizer) Process(transcript string) []string {
	return t.Tokenize(ExtractIngredientSection(transcript))
}

// Tokenize splits section into ordered, de-duplicated ingredient tokens.
// Tokens keep the casing of their first occurrence.
func (t *Tokenizer) Tokenize(section string) []string {
	section = norm.NFKC.String(section)
	section = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, section)
	section = parenAdditive.ReplaceAllString(section, " ")

	var tokens []string
	seen := make(map[string]struct{})

	for _, fragment := range splitPrimary(section) {
		for _, piece := range strings.FieldsFunc(fragment, isBracket) {
			for _, part := range joiner.Split(piece, -1) {
				word := t.processToken(part)
				if word == "" {
					continue
				}
				key := strings.ToLower(word)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				tokens = append(tokens, word)
			}
		}
	}
	return tokens
}

// processToken cleans a raw fragment and applies the filters. It returns ""
// for anything that is not an ingredient candidate.
func (t *Tokenizer) processToken(raw string) string {
	word := cleanToken(raw)
	if word == "" || utf8.RuneCountInString(word) <= 1 {
		return ""
	}
	if isNumericOnly(word) || bareAdditive.MatchString(word) {
		return ""
	}
	if t.noise.IsNoise(word) {
		return ""
	}
	return word
}

func cleanToken(token string) string {
	token = strayPunct.Replace(token)
	token = percentage.ReplaceAllString(token, " ")
	token = collapseSpaces(token)
	token = trimPunct(token)

	for {
		stripped := stripNoisePrefix(token)
		if stripped == token {
			return token
		}
		token = trimPunct(stripped)
	}
}

func stripNoisePrefix(token string) string {
	for _, p := range noisePrefixes {
		if len(token) < len(p) || !strings.EqualFold(token[:len(p)], p) {
			continue
		}
		if len(token) == len(p) {
			return ""
		}
		if token[len(p)] == ' ' {
			return token[len(p)+1:]
		}
	}
	return token
}

// splitPrimary splits on ',', ';' and '.'. A '.' wedged between two letters
// or digits ("2.5", "www.example.com") is not a delimiter.
func splitPrimary(s string) []string {
	var fragments []string
	start := 0
	for i, r := range s {
		switch r {
		case ',', ';':
		case '.':
			if isInnerDot(s, i) {
				continue
			}
		default:
			continue
		}
		fragments = append(fragments, s[start:i])
		start = i + 1
	}
	return append(fragments, s[start:])
}

func isInnerDot(s string, i int) bool {
	if i == 0 || i+1 >= len(s) {
		return false
	}
	prev, _ := utf8.DecodeLastRuneInString(s[:i])
	next, _ := utf8.DecodeRuneInString(s[i+1:])
	return isAlnum(prev) && isAlnum(next)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isBracket(r rune) bool {
	switch r {
	case '(', ')', '[', ']':
		return true
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// isNumericOnly reports whether s has digits and nothing but separators,
// e.g. "250", "12/2025", "1.5".
func isNumericOnly(s string) bool {
	digits := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits = true
		case unicode.IsSpace(r) || unicode.IsPunct(r):
		default:
			return false
		}
	}
	return digits
}
