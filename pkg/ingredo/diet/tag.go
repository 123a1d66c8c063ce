// Package diet defines dietary tags, user preferences and the static policy
// table that decides which tags each preference tolerates.
package diet

import (
	"fmt"
	"strings"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

// Tag is the animal-derivation class of a single ingredient.
type Tag string

const (
	TagVegan       Tag = "vegan"
	TagVegetarian  Tag = "vegetarian" // dairy-derived
	TagAnimal      Tag = "animal"     // meat, flesh, slaughter by-products
	TagPescatarian Tag = "pescatarian"
	TagEggetarian  Tag = "eggetarian"
	TagAmbiguous   Tag = "ambiguous" // plant or animal, label does not say
)

// AllTags returns every tag in a stable order.
func AllTags() []Tag {
	return []Tag{TagVegan, TagVegetarian, TagAnimal, TagPescatarian, TagEggetarian, TagAmbiguous}
}

var tagAliases = map[string]Tag{
	"vegan":       TagVegan,
	"plant":       TagVegan,
	"vegetarian":  TagVegetarian,
	"dairy":       TagVegetarian,
	"animal":      TagAnimal,
	"meat":        TagAnimal,
	"pescatarian": TagPescatarian,
	"fish":        TagPescatarian,
	"seafood":     TagPescatarian,
	"eggetarian":  TagEggetarian,
	"egg":         TagEggetarian,
	"ambiguous":   TagAmbiguous,
	"both":        TagAmbiguous,
	"unsure":      TagAmbiguous,
}

// ParseTag converts a tag name or one of its aliases into a Tag.
func ParseTag(s string) (Tag, error) {
	if t, ok := tagAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", internalerr.ErrUnknownTag, s)
}

// Valid reports whether t is one of the declared tags.
func (t Tag) Valid() bool {
	switch t {
	case TagVegan, TagVegetarian, TagAnimal, TagPescatarian, TagEggetarian, TagAmbiguous:
		return true
	}
	return false
}

func (t Tag) String() string { return string(t) }

// Partition is one of the four output buckets of a scan.
type Partition string

const (
	Whitelisted  Partition = "whitelisted"
	Blacklisted  Partition = "blacklisted"
	Ambiguous    Partition = "ambiguous"
	Unclassified Partition = "unclassified"
)

func (p Partition) String() string { return string(p) }
