// Package match resolves ingredient tokens against the reference database
// and the known-ingredient dictionary.
//
// Tiers are tried in a fixed order, from most to least precise:
//
//  1. exact        reference name, case- and accent-insensitive
//  2. lemma        reference name after singularising the head word
//  3. known        dictionary key
//  4. known_fuzzy  dictionary scan, separator-insensitive then containment
//  5. similar      reference scan by containment, word starts first
//
// A token that survives none of them is NotFound.
package match

import (
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/lexicon"
	"github.com/cognicore/ingredo/pkg/ingredo/refdb"
)

// Kind is the shape of a match result.
type Kind string

const (
	Found        Kind = "found"
	FoundKnown   Kind = "found_known"
	FoundSimilar Kind = "found_similar"
	NotFound     Kind = "not_found"
)

// Tier names the step that produced a match.
type Tier string

const (
	TierExact      Tier = "exact"
	TierLemma      Tier = "lemma"
	TierKnown      Tier = "known"
	TierKnownFuzzy Tier = "known_fuzzy"
	TierSimilar    Tier = "similar"
	TierNone       Tier = "none"
)

// Tiers returns every tier in matching order, TierNone last.
func Tiers() []Tier {
	return []Tier{TierExact, TierLemma, TierKnown, TierKnownFuzzy, TierSimilar, TierNone}
}

// Result is the outcome of matching one token.
type Result struct {
	Token string `json:"token"`
	Kind  Kind   `json:"kind"`
	Tier  Tier   `json:"tier"`

	// Set for Found and FoundSimilar.
	Record *refdb.Record `json:"record,omitempty"`

	// Set for FoundKnown.
	Key string   `json:"key,omitempty"`
	Tag diet.Tag `json:"tag,omitempty"`
}

// Matched reports whether any tier succeeded.
func (r Result) Matched() bool { return r.Kind != NotFound && r.Kind != "" }

// Matcher holds read-only references and is safe for concurrent use.
type Matcher struct {
	index *refdb.Index
	dict  *lexicon.Dictionary
}

// New creates a matcher. Either source may be nil, in which case its tiers
// never match.
func New(index *refdb.Index, dict *lexicon.Dictionary) *Matcher {
	return &Matcher{index: index, dict: dict}
}

// Match runs the tiers in order and returns the first hit.
func (m *Matcher) Match(token string) Result {
	folded := refdb.Fold(token)
	if folded == "" {
		return Result{Token: token, Kind: NotFound, Tier: TierNone}
	}

	if rec, ok := m.index.Lookup(folded); ok {
		return found(token, Found, TierExact, rec)
	}

	// Lemmatising only changes the head word, so skip the second lookup when
	// it is already singular.
	if lemma := refdb.Lemmatize(folded); lemma != folded {
		if rec, ok := m.index.Lookup(lemma); ok {
			return found(token, Found, TierLemma, rec)
		}
	}

	if tag, ok := m.dict.Lookup(token); ok {
		return Result{Token: token, Kind: FoundKnown, Tier: TierKnown, Key: lexicon.Key(token), Tag: tag}
	}

	if e, ok := m.dict.Fuzzy(token); ok {
		return Result{Token: token, Kind: FoundKnown, Tier: TierKnownFuzzy, Key: e.Key, Tag: e.Tag}
	}

	// Broadest tier: "chicken breast fillet" lands on "Chicken".
	if rec, ok := m.index.Similar(folded); ok {
		return found(token, FoundSimilar, TierSimilar, rec)
	}

	return Result{Token: token, Kind: NotFound, Tier: TierNone}
}

func found(token string, kind Kind, tier Tier, rec refdb.Record) Result {
	return Result{Token: token, Kind: kind, Tier: tier, Record: &rec}
}
