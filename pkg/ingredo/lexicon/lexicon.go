// Package lexicon holds the known-ingredient dictionary: a curated, ordered
// mapping from normalised ingredient keywords to dietary tags. It covers
// tokens the reference database does not, such as additive codes and
// processing aids.
//
// Keys are lowercase_with_underscores ("sodium_caseinate"). Entries keep the
// order they were loaded in and every scan walks them in that order, so
// fuzzy results are reproducible.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/refdb"
)

//go:embed known_ingredients.yaml
var embeddedDictionary []byte

// Entry is one dictionary keyword and its tag.
type Entry struct {
	Key string   `yaml:"key" json:"key"`
	Tag diet.Tag `yaml:"tag" json:"tag"`
}

// Dictionary is read-only once built and safe for concurrent lookups.
type Dictionary struct {
	entries []Entry
	index   map[string]int // key -> offset into entries

	// Precomputed forms of each key for the fuzzy scans.
	spaced  []string // "sodium caseinate"
	compact []string // "sodiumcaseinate"
}

// New creates an empty dictionary.
func New() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

var defaultDictionary = sync.OnceValues(func() (*Dictionary, error) {
	return Parse(embeddedDictionary)
})

// Default returns the dictionary compiled into the binary. It is parsed once
// and shared; callers must not Add to it.
func Default() *Dictionary {
	d, err := defaultDictionary()
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded dictionary: %v", err))
	}
	return d
}

// LoadFromYAML loads a dictionary file.
//
// Expected format:
//
//	groups:
//	  - tag: animal
//	    terms: [gelatin, gelatine, lard]
//	  - tag: ambiguous
//	    terms: [lecithin, glycerin]
//
// Tags accept the aliases understood by diet.ParseTag ("both", "dairy", ...).
func LoadFromYAML(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read dictionary: %w", internalerr.ErrInvalidConfig, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse builds a dictionary from YAML bytes in the LoadFromYAML format.
func Parse(data []byte) (*Dictionary, error) {
	var doc struct {
		Groups []struct {
			Tag   string   `yaml:"tag"`
			Terms []string `yaml:"terms"`
		} `yaml:"groups"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse dictionary: %w", internalerr.ErrInvalidConfig, err)
	}

	d := New()
	for i, g := range doc.Groups {
		tag, err := diet.ParseTag(g.Tag)
		if err != nil {
			return nil, fmt.Errorf("%w: dictionary group %d: %w", internalerr.ErrInvalidConfig, i, err)
		}
		for _, term := range g.Terms {
			d.Add(term, tag)
		}
	}
	return d, nil
}

// Key normalises a token to dictionary key form: folded, with spaces and
// hyphens turned into underscores. "Sodium-Caseinate" -> "sodium_caseinate".
func Key(token string) string {
	folded := refdb.Fold(strings.NewReplacer("-", " ", "_", " ").Replace(token))
	return strings.ReplaceAll(folded, " ", "_")
}

// Add inserts or retags a keyword. A retagged keyword keeps its original
// position. Add is for building a dictionary and must not race with lookups.
func (d *Dictionary) Add(term string, tag diet.Tag) {
	key := Key(term)
	if key == "" {
		return
	}
	if offset, ok := d.index[key]; ok {
		d.entries[offset].Tag = tag
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Tag: tag})
	d.spaced = append(d.spaced, strings.ReplaceAll(key, "_", " "))
	d.compact = append(d.compact, compactForm(key))
}

// Merge returns a new dictionary holding d's entries followed by other's.
// Keys present in both take other's tag and keep d's position.
func (d *Dictionary) Merge(other *Dictionary) *Dictionary {
	merged := New()
	for _, e := range d.Entries() {
		merged.Add(e.Key, e.Tag)
	}
	for _, e := range other.Entries() {
		merged.Add(e.Key, e.Tag)
	}
	return merged
}

// Lookup returns the tag for an exact key match.
func (d *Dictionary) Lookup(token string) (diet.Tag, bool) {
	if d == nil {
		return "", false
	}
	offset, ok := d.index[Key(token)]
	if !ok {
		return "", false
	}
	return d.entries[offset].Tag, true
}

// Fuzzy looks for a keyword resembling token. It first scans for a key equal
// to the token once separators are ignored ("soyalecithin" vs "soya_lecithin"),
// then for a key that contains the token, or is contained in it, at a word
// start, and last for the same containment anywhere ("wholemilk" holds
// "milk"). Every scan runs in insertion order and the first hit wins.
func (d *Dictionary) Fuzzy(token string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	key := Key(token)
	if key == "" {
		return Entry{}, false
	}

	compact := compactForm(key)
	for i, c := range d.compact {
		if c == compact {
			return d.entries[i], true
		}
	}

	spaced := strings.ReplaceAll(key, "_", " ")
	for _, contains := range []func(hay, needle string) bool{refdb.ContainsWordPrefix, refdb.ContainsPart} {
		for i, s := range d.spaced {
			if contains(spaced, s) || contains(s, spaced) {
				return d.entries[i], true
			}
		}
	}
	return Entry{}, false
}

// Entries returns a copy of all entries in insertion order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	return slices.Clone(d.entries)
}

// Len returns the number of keywords.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Stats returns keyword counts per tag.
func (d *Dictionary) Stats() Stats {
	s := Stats{PerTag: make(map[diet.Tag]int)}
	if d == nil {
		return s
	}
	for _, e := range d.entries {
		s.PerTag[e.Tag]++
	}
	s.Total = len(d.entries)
	return s
}

// Stats holds dictionary size information.
type Stats struct {
	Total  int
	PerTag map[diet.Tag]int
}

func compactForm(key string) string {
	return strings.ReplaceAll(key, "_", "")
}
