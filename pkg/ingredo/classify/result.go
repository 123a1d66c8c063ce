package classify

import (
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/match"
)

// Verdict is the overall answer for a scan.
type Verdict string

const (
	Safe    Verdict = "safe"
	Unsafe  Verdict = "unsafe"
	NotSure Verdict = "notSure"
)

// Verdicts returns every verdict.
func Verdicts() []Verdict { return []Verdict{Safe, Unsafe, NotSure} }

// Item is one recognised ingredient together with every token that resolved
// to it.
type Item struct {
	Name      string     `json:"name"`
	Tokens    []string   `json:"tokens"`
	Tag       diet.Tag   `json:"tag"`
	Match     match.Kind `json:"match"`
	Tier      match.Tier `json:"tier"`
	RecordID  int        `json:"record_id,omitempty"`
	FoodGroup string     `json:"food_group,omitempty"`
}

// Result is the classification of one scan.
type Result struct {
	Preference   diet.Preference `json:"preference"`
	Whitelisted  []Item          `json:"whitelisted"`
	Blacklisted  []Item          `json:"blacklisted"`
	Ambiguous    []Item          `json:"ambiguous"`
	Unclassified []string        `json:"unclassified"`
	Verdict      Verdict         `json:"verdict"`
	Reasons      []string        `json:"reasons"`
}

// Partition returns the items of p. Unclassified has no items; use the
// Unclassified field.
func (r Result) Partition(p diet.Partition) []Item {
	switch p {
	case diet.Whitelisted:
		return r.Whitelisted
	case diet.Blacklisted:
		return r.Blacklisted
	case diet.Ambiguous:
		return r.Ambiguous
	}
	return nil
}

// ByTag returns all recognised items carrying tag, across partitions.
func (r Result) ByTag(tag diet.Tag) []Item {
	var out []Item
	for _, part := range [][]Item{r.Whitelisted, r.Blacklisted, r.Ambiguous} {
		for _, item := range part {
			if item.Tag == tag {
				out = append(out, item)
			}
		}
	}
	return out
}

// Tokens returns every token in the result, recognised or not.
func (r Result) Tokens() []string {
	var out []string
	for _, part := range [][]Item{r.Whitelisted, r.Blacklisted, r.Ambiguous} {
		for _, item := range part {
			out = append(out, item.Tokens...)
		}
	}
	return append(out, r.Unclassified...)
}

// Counts returns the number of tokens per partition.
func (r Result) Counts() map[diet.Partition]int {
	counts := map[diet.Partition]int{
		diet.Whitelisted:  0,
		diet.Blacklisted:  0,
		diet.Ambiguous:    0,
		diet.Unclassified: len(r.Unclassified),
	}
	for _, p := range []diet.Partition{diet.Whitelisted, diet.Blacklisted, diet.Ambiguous} {
		for _, item := range r.Partition(p) {
			counts[p] += len(item.Tokens)
		}
	}
	return counts
}

// Empty reports whether nothing at all was extracted.
func (r Result) Empty() bool {
	return len(r.Whitelisted) == 0 && len(r.Blacklisted) == 0 &&
		len(r.Ambiguous) == 0 && len(r.Unclassified) == 0
}

func verdictOf(r Result) Verdict {
	switch {
	case len(r.Blacklisted) > 0:
		return Unsafe
	case len(r.Whitelisted) == 0 && len(r.Ambiguous) == 0:
		// Nothing recognised; the OCR probably missed the list.
		return NotSure
	default:
		return Safe
	}
}

const (
	ReasonAnimal       = "Contains animal ingredients"
	ReasonSeafood      = "Contains seafood"
	ReasonEggs         = "Contains eggs"
	ReasonDairy        = "Contains dairy"
	ReasonUncertain    = "Contains ingredients of uncertain origin"
	ReasonUnclassified = "Contains unclassified ingredients"
	ReasonNothing      = "No ingredients recognised"
)

var reasonByTag = []struct {
	tag    diet.Tag
	reason string
}{
	{diet.TagAnimal, ReasonAnimal},
	{diet.TagPescatarian, ReasonSeafood},
	{diet.TagEggetarian, ReasonEggs},
	{diet.TagVegetarian, ReasonDairy},
	{diet.TagAmbiguous, ReasonUncertain},
}

func reasonsOf(r Result) []string {
	reasons := []string{}
	if r.Verdict == NotSure {
		reasons = append(reasons, ReasonNothing)
	}
	for _, rt := range reasonByTag {
		if hasTag(r.Blacklisted, rt.tag) {
			reasons = append(reasons, rt.reason)
		}
	}
	if len(r.Ambiguous) > 0 && !hasTag(r.Blacklisted, diet.TagAmbiguous) {
		reasons = append(reasons, ReasonUncertain)
	}
	if len(r.Unclassified) > 0 {
		reasons = append(reasons, ReasonUnclassified)
	}
	return reasons
}

func hasTag(items []Item, tag diet.Tag) bool {
	for _, item := range items {
		if item.Tag == tag {
			return true
		}
	}
	return false
}
