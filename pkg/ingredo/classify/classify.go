// Package classify assigns dietary tags to matched tokens and partitions them
// for a preference.
package classify

import (
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/lexicon"
	"github.com/cognicore/ingredo/pkg/ingredo/match"
)

// Classifier is stateless apart from its read-only inputs.
type Classifier struct {
	groups diet.FoodGroups
	dict   *lexicon.Dictionary
}

// New creates a classifier. dict is consulted for records whose food group
// does not settle the tag.
func New(groups diet.FoodGroups, dict *lexicon.Dictionary) *Classifier {
	return &Classifier{groups: groups, dict: dict}
}

// Tag derives the dietary tag of a match. The second result is false for
// NotFound, which carries no tag.
//
// For reference records the food group decides first (animal, aquatic, dairy,
// egg, uncertain, plant). Records in any other group fall back to the
// dictionary by record name, and to ambiguous when the dictionary has nothing.
func (c *Classifier) Tag(m match.Result) (diet.Tag, bool) {
	switch m.Kind {
	case match.FoundKnown:
		return m.Tag, true
	case match.Found, match.FoundSimilar:
		if m.Record == nil {
			return diet.TagAmbiguous, true
		}
		if tag, ok := c.groups.TagFor(m.Record.FoodGroup); ok {
			return tag, true
		}
		if tag, ok := c.dict.Lookup(m.Record.Name); ok {
			return tag, true
		}
		if e, ok := c.dict.Fuzzy(m.Record.Name); ok {
			return e.Tag, true
		}
		return diet.TagAmbiguous, true
	}
	return "", false
}

// Classify returns the tag and partition of one matched token.
func (c *Classifier) Classify(m match.Result, pref diet.Preference) (diet.Tag, diet.Partition) {
	tag, ok := c.Tag(m)
	if !ok {
		return "", diet.Unclassified
	}
	return tag, diet.PolicyFor(pref).Decide(tag)
}

// Build classifies a full token list in order.
func (c *Classifier) Build(pref diet.Preference, matches []match.Result) Result {
	b := c.NewBuilder(pref)
	for _, m := range matches {
		b.Add(m)
	}
	return b.Result()
}
