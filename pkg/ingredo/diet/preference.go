package diet

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

// Preference is the diet selected by the end user.
type Preference string

const (
	Vegan       Preference = "vegan"
	Vegetarian  Preference = "vegetarian"
	Pescatarian Preference = "pescatarian"
	Eggetarian  Preference = "eggetarian"
)

// AllPreferences returns the supported preferences in display order.
func AllPreferences() []Preference {
	return []Preference{Vegan, Vegetarian, Pescatarian, Eggetarian}
}

// ParsePreference accepts a preference name in any case.
// "pescetarian" is accepted as an alternative spelling.
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case Vegan, Vegetarian, Pescatarian, Eggetarian:
		return p, nil
	case "pescetarian":
		return Pescatarian, nil
	}
	return "", fmt.Errorf("%w: %q", internalerr.ErrUnknownPreference, s)
}

func (p Preference) String() string { return string(p) }

// Title is the display name, e.g. "Vegan".
func (p Preference) Title() string {
	return cases.Title(language.English).String(string(p))
}

// Policy is the static rule set for one preference.
type Policy struct {
	Preference       Preference
	DisallowedGroups []string // reference-database food groups never safe
	UncertainGroups  []string // food groups that need a closer look
	DisallowedTags   []Tag
	AmbiguousUnsafe  bool // ambiguous ingredients count as unsafe
}

var policies = map[Preference]Policy{
	Vegan: {
		Preference:       Vegan,
		DisallowedGroups: []string{"Milk and milk products", "Animal foods", "Aquatic foods", "Eggs"},
		UncertainGroups:  []string{"Animal & Plant Derived"},
		DisallowedTags:   []Tag{TagVegetarian, TagAnimal, TagPescatarian, TagEggetarian},
		AmbiguousUnsafe:  true,
	},
	Vegetarian: {
		Preference:       Vegetarian,
		DisallowedGroups: []string{"Animal foods", "Aquatic foods", "Eggs"},
		DisallowedTags:   []Tag{TagAnimal, TagPescatarian, TagEggetarian},
	},
	Pescatarian: {
		Preference:       Pescatarian,
		DisallowedGroups: []string{"Animal foods", "Eggs"},
		DisallowedTags:   []Tag{TagAnimal, TagEggetarian},
	},
	Eggetarian: {
		Preference:       Eggetarian,
		DisallowedGroups: []string{"Animal foods", "Aquatic foods"},
		DisallowedTags:   []Tag{TagAnimal, TagPescatarian},
	},
}

// PolicyFor returns a copy of the policy for p. Unknown preferences get the
// vegan policy, which is the strictest one.
func PolicyFor(p Preference) Policy {
	pol, ok := policies[p]
	if !ok {
		pol = policies[Vegan]
	}
	pol.DisallowedGroups = slices.Clone(pol.DisallowedGroups)
	pol.UncertainGroups = slices.Clone(pol.UncertainGroups)
	pol.DisallowedTags = slices.Clone(pol.DisallowedTags)
	return pol
}

// Allows reports whether an ingredient carrying tag is acceptable outright.
func (p Policy) Allows(tag Tag) bool {
	return tag != TagAmbiguous && !slices.Contains(p.DisallowedTags, tag)
}

// Decide maps a tag to its partition under this policy.
//
//	tag         vegan  vegetarian  pescatarian  eggetarian
//	vegan       safe   safe        safe         safe
//	vegetarian  unsafe safe        safe         safe
//	animal      unsafe unsafe      unsafe       unsafe
//	pescatarian unsafe unsafe      safe         unsafe
//	eggetarian  unsafe unsafe      unsafe       safe
//	ambiguous   unsafe ambiguous   ambiguous    ambiguous
func (p Policy) Decide(tag Tag) Partition {
	switch {
	case tag == TagAmbiguous && p.AmbiguousUnsafe:
		return Blacklisted
	case tag == TagAmbiguous:
		return Ambiguous
	case !tag.Valid():
		// An unknown tag never reads as safe.
		return Blacklisted
	case slices.Contains(p.DisallowedTags, tag):
		return Blacklisted
	default:
		return Whitelisted
	}
}

// DisallowsGroup reports whether the reference food group is off limits.
func (p Policy) DisallowsGroup(group string) bool {
	return containsFold(p.DisallowedGroups, group)
}

// IsUncertainGroup reports whether the food group is flagged as uncertain.
func (p Policy) IsUncertainGroup(group string) bool {
	return containsFold(p.UncertainGroups, group)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
