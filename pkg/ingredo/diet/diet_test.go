package diet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

func TestDecideTruthTable(t *testing.T) {
	// Rows are tags, columns are preferences in AllPreferences order.
	table := map[Tag][4]Partition{
		TagVegan:       {Whitelisted, Whitelisted, Whitelisted, Whitelisted},
		TagVegetarian:  {Blacklisted, Whitelisted, Whitelisted, Whitelisted},
		TagAnimal:      {Blacklisted, Blacklisted, Blacklisted, Blacklisted},
		TagPescatarian: {Blacklisted, Blacklisted, Whitelisted, Blacklisted},
		TagEggetarian:  {Blacklisted, Blacklisted, Blacklisted, Whitelisted},
		TagAmbiguous:   {Blacklisted, Ambiguous, Ambiguous, Ambiguous},
	}
	require.Len(t, table, len(AllTags()), "every tag must have a row")

	for tag, row := range table {
		for i, pref := range AllPreferences() {
			t.Run(fmt.Sprintf("%s/%s", tag, pref), func(t *testing.T) {
				assert.Equal(t, row[i], PolicyFor(pref).Decide(tag))
			})
		}
	}
}

func TestDecideUnknownTagIsNeverSafe(t *testing.T) {
	for _, pref := range AllPreferences() {
		assert.Equal(t, Blacklisted, PolicyFor(pref).Decide(Tag("mystery")), pref)
	}
}

func TestAmbiguousUnderVeganIsConservative(t *testing.T) {
	pol := PolicyFor(Vegan)
	assert.True(t, pol.AmbiguousUnsafe)
	assert.False(t, pol.Allows(TagAmbiguous))
	assert.NotEqual(t, Whitelisted, pol.Decide(TagAmbiguous))
}

func TestPolicyForReturnsCopy(t *testing.T) {
	p := PolicyFor(Vegetarian)
	p.DisallowedTags[0] = TagVegan
	p.DisallowedGroups[0] = "Vegetables"

	fresh := PolicyFor(Vegetarian)
	assert.Equal(t, TagAnimal, fresh.DisallowedTags[0])
	assert.Equal(t, "Animal foods", fresh.DisallowedGroups[0])
}

func TestPolicyGroups(t *testing.T) {
	vegan := PolicyFor(Vegan)
	assert.True(t, vegan.DisallowsGroup("milk and milk products"))
	assert.True(t, vegan.IsUncertainGroup("Animal & Plant Derived"))

	pesc := PolicyFor(Pescatarian)
	assert.False(t, pesc.DisallowsGroup("Aquatic foods"))
	assert.True(t, pesc.DisallowsGroup("Eggs"))

	egg := PolicyFor(Eggetarian)
	assert.False(t, egg.DisallowsGroup("Eggs"))
	assert.False(t, egg.IsUncertainGroup("Animal & Plant Derived"))
}

func TestParsePreference(t *testing.T) {
	tests := []struct {
		in   string
		want Preference
	}{
		{"vegan", Vegan},
		{" Vegetarian ", Vegetarian},
		{"PESCATARIAN", Pescatarian},
		{"pescetarian", Pescatarian},
		{"eggetarian", Eggetarian},
	}
	for _, tt := range tests {
		got, err := ParsePreference(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParsePreference("jain")
	assert.True(t, errors.Is(err, internalerr.ErrUnknownPreference))
}

func TestParseTagAliases(t *testing.T) {
	cases := map[string]Tag{
		"both":    TagAmbiguous,
		"dairy":   TagVegetarian,
		"Seafood": TagPescatarian,
		"egg":     TagEggetarian,
		"meat":    TagAnimal,
		"vegan":   TagVegan,
	}
	for in, want := range cases {
		got, err := ParseTag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTag("veg")
	assert.ErrorIs(t, err, internalerr.ErrUnknownTag)
}

func TestPreferenceTitle(t *testing.T) {
	assert.Equal(t, "Vegan", Vegan.Title())
	assert.Equal(t, "Pescatarian", Pescatarian.Title())
}

func TestFoodGroupsTagFor(t *testing.T) {
	g := DefaultFoodGroups()
	cases := map[string]Tag{
		"Animal foods":           TagAnimal,
		"aquatic foods":          TagPescatarian,
		"Milk and milk products": TagVegetarian,
		"Eggs":                   TagEggetarian,
		"Animal & Plant Derived": TagAmbiguous,
		"Herbs and Spices":       TagVegan,
		"Pulses":                 TagVegan,
	}
	for group, want := range cases {
		got, ok := g.TagFor(group)
		require.True(t, ok, group)
		assert.Equal(t, want, got, group)
	}

	_, ok := g.TagFor("Baking goods")
	assert.False(t, ok)
	_, ok = g.TagFor("")
	assert.False(t, ok)
}
