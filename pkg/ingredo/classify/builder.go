package classify

import (
	"strconv"

	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/match"
)

// Builder accumulates one scan. It is not safe for concurrent use; every
// scan gets its own.
type Builder struct {
	c      *Classifier
	policy diet.Policy

	items        []Item
	partitions   []diet.Partition
	byIdentity   map[string]int // merge key -> offset into items
	unclassified []string
}

// NewBuilder starts an empty result for pref.
func (c *Classifier) NewBuilder(pref diet.Preference) *Builder {
	return &Builder{
		c:          c,
		policy:     diet.PolicyFor(pref),
		byIdentity: make(map[string]int),
	}
}

// Add places one matched token. Tokens that resolve to the same record or
// dictionary keyword share a single item, so each token lands in exactly one
// partition.
func (b *Builder) Add(m match.Result) {
	tag, ok := b.c.Tag(m)
	if !ok {
		b.unclassified = append(b.unclassified, m.Token)
		return
	}

	id := identity(m)
	if offset, seen := b.byIdentity[id]; seen {
		b.items[offset].Tokens = append(b.items[offset].Tokens, m.Token)
		return
	}

	item := Item{
		Name:   m.Token,
		Tokens: []string{m.Token},
		Tag:    tag,
		Match:  m.Kind,
		Tier:   m.Tier,
	}
	if m.Record != nil {
		item.Name = m.Record.Name
		item.RecordID = m.Record.ID
		item.FoodGroup = m.Record.FoodGroup
	}

	b.byIdentity[id] = len(b.items)
	b.items = append(b.items, item)
	b.partitions = append(b.partitions, b.policy.Decide(tag))
}

// Result assembles the partitions, verdict and reasons. The builder can keep
// accepting tokens afterwards; the returned value does not alias its state.
func (b *Builder) Result() Result {
	r := Result{
		Preference:   b.policy.Preference,
		Whitelisted:  []Item{},
		Blacklisted:  []Item{},
		Ambiguous:    []Item{},
		Unclassified: append([]string{}, b.unclassified...),
	}
	for i, item := range b.items {
		item.Tokens = append([]string(nil), item.Tokens...)
		switch b.partitions[i] {
		case diet.Whitelisted:
			r.Whitelisted = append(r.Whitelisted, item)
		case diet.Blacklisted:
			r.Blacklisted = append(r.Blacklisted, item)
		case diet.Ambiguous:
			r.Ambiguous = append(r.Ambiguous, item)
		}
	}
	r.Verdict = verdictOf(r)
	r.Reasons = reasonsOf(r)
	return r
}

func identity(m match.Result) string {
	switch {
	case m.Record != nil:
		return "record:" + strconv.Itoa(m.Record.ID)
	case m.Kind == match.FoundKnown:
		return "known:" + m.Key
	}
	return "token:" + m.Token
}
