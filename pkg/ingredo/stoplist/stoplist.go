// Package stoplist holds the non-ingredient noise denylist. A token that
// contains any listed term is an OCR artifact or label boilerplate
// ("www.example.com", "Suitable for vegans") and is dropped before matching.
package stoplist

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

// Reason records where a noise term came from.
type Reason string

const (
	Builtin    Reason = "builtin"
	Configured Reason = "configured"
)

// builtinTerms are always active.
var builtinTerms = []string{
	"www",
	".com",
	"http",
	"alamy",
	"image",
	"suitable for",
	"vegetarian",
	"vegan",
	"ingredients",
	"contains",
	"manufactured",
	"best before",
	"use by",
	"net weight",
	"net wt",
	"kcal",
	"nutrition",
	"per 100",
	"barcode",
}

// Manager holds the noise terms. It is built once and read-only afterwards.
type Manager struct {
	terms  map[string]Reason
	sorted []string
}

// NewManager creates a manager with the builtin terms plus extra.
func NewManager(extra []string) *Manager {
	m := &Manager{terms: make(map[string]Reason, len(builtinTerms)+len(extra))}
	for _, t := range builtinTerms {
		m.terms[t] = Builtin
	}
	for _, t := range extra {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := m.terms[t]; !ok {
			m.terms[t] = Configured
		}
	}
	m.sorted = make([]string, 0, len(m.terms))
	for t := range m.terms {
		m.sorted = append(m.sorted, t)
	}
	sort.Strings(m.sorted)
	return m
}

// LoadFromYAML reads extra terms from a file of the form
//
//	terms:
//	  - "scan me"
//	  - "recycle"
func LoadFromYAML(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read noise terms: %w", internalerr.ErrInvalidConfig, err)
	}
	var doc struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse noise terms %s: %w", internalerr.ErrInvalidConfig, path, err)
	}
	return NewManager(doc.Terms), nil
}

// IsNoise reports whether token contains any noise term, ignoring case.
// A nil manager treats nothing as noise.
func (m *Manager) IsNoise(token string) bool {
	_, ok := m.Match(token)
	return ok
}

// Match returns the first noise term (in sorted order) found in token.
func (m *Manager) Match(token string) (string, bool) {
	if m == nil || token == "" {
		return "", false
	}
	lower := strings.ToLower(token)
	for _, t := range m.sorted {
		if strings.Contains(lower, t) {
			return t, true
		}
	}
	return "", false
}

// Reason returns why term is on the list.
func (m *Manager) Reason(term string) (Reason, bool) {
	if m == nil {
		return "", false
	}
	r, ok := m.terms[strings.ToLower(term)]
	return r, ok
}

// All returns every term, sorted.
func (m *Manager) All() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.sorted)
}

// Len returns the number of terms.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.terms)
}

// Stats describes how often a token stayed unclassified across scans.
type Stats struct {
	Token     string
	DF        int     // scans the token appeared in
	DFPercent float64 // DF as a percentage of all scans
}

// Candidate is a token suggested for the noise list.
type Candidate struct {
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

// SuggestCandidates proposes tokens that are unclassified in at least
// minDFPercent of scans and are not already noise. Label boilerplate that
// OCR picks up on every product ("scan here", "recyclable") shows up this way.
// Results are ordered by score, then token.
func (m *Manager) SuggestCandidates(stats []Stats, minDFPercent float64) []Candidate {
	var candidates []Candidate
	for _, s := range stats {
		if s.DFPercent < minDFPercent || m.IsNoise(s.Token) {
			continue
		}
		candidates = append(candidates, Candidate{Token: s.Token, Score: s.DFPercent / 100.0})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}
