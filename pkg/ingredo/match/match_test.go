package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/lexicon"
	"github.com/cognicore/ingredo/pkg/ingredo/refdb"
)

func fixture() (*refdb.Index, *lexicon.Dictionary) {
	index := refdb.NewIndex([]refdb.Record{
		{ID: 1, Name: "Tomato", FoodGroup: "Vegetables"},
		{ID: 2, Name: "Cow milk", FoodGroup: "Milk and milk products"},
		{ID: 3, Name: "Chicken", FoodGroup: "Animal foods"},
		{ID: 4, Name: "Peanut", FoodGroup: "Pulses"},
		{ID: 5, Name: "Atlantic salmon", FoodGroup: "Aquatic foods"},
		{ID: 6, Name: "Sugar", FoodGroup: "Confectioneries"},
	})

	dict := lexicon.New()
	dict.Add("gelatin", diet.TagAnimal)
	dict.Add("lecithin", diet.TagAmbiguous)
	dict.Add("mono and diglycerides", diet.TagAmbiguous)
	dict.Add("milk", diet.TagVegetarian)
	return index, dict
}

func TestMatchTiers(t *testing.T) {
	m := New(fixture())

	tests := []struct {
		token    string
		kind     Kind
		tier     Tier
		recordID int
		tag      diet.Tag
	}{
		{"TOMATO", Found, TierExact, 1, ""},
		{"Tomatoes", Found, TierLemma, 1, ""},
		{"Peanuts", Found, TierLemma, 4, ""},
		{"Gelatin", FoundKnown, TierKnown, 0, diet.TagAnimal},
		{"mono-and-diglycerides", FoundKnown, TierKnown, 0, diet.TagAmbiguous},
		{"monoanddiglycerides", FoundKnown, TierKnownFuzzy, 0, diet.TagAmbiguous},
		{"soya lecithin", FoundKnown, TierKnownFuzzy, 0, diet.TagAmbiguous},
		{"skimmed milk", FoundKnown, TierKnownFuzzy, 0, diet.TagVegetarian},
		{"wholemilk powder", FoundKnown, TierKnownFuzzy, 0, diet.TagVegetarian},
		{"chicken breast", FoundSimilar, TierSimilar, 3, ""},
		{"salmon", FoundSimilar, TierSimilar, 5, ""},
		{"quinoa", NotFound, TierNone, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := m.Match(tt.token)
			assert.Equal(t, tt.token, got.Token)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.tier, got.Tier)
			assert.Equal(t, tt.tag, got.Tag)
			if tt.recordID != 0 {
				require.NotNil(t, got.Record)
				assert.Equal(t, tt.recordID, got.Record.ID)
			} else {
				assert.Nil(t, got.Record)
			}
		})
	}
}

func TestMatchExactBeatsDictionary(t *testing.T) {
	index, dict := fixture()
	dict.Add("tomato", diet.TagAmbiguous)

	got := New(index, dict).Match("tomato")
	assert.Equal(t, TierExact, got.Tier)
}

func TestMatchEmptyToken(t *testing.T) {
	m := New(fixture())
	for _, tok := range []string{"", "   ", "\t"} {
		got := m.Match(tok)
		assert.Equal(t, NotFound, got.Kind)
		assert.False(t, got.Matched())
	}
}

func TestMatchNilSources(t *testing.T) {
	m := New(nil, nil)
	got := m.Match("tomato")
	assert.Equal(t, NotFound, got.Kind)
	assert.Equal(t, TierNone, got.Tier)
}

func TestMatchIsDeterministic(t *testing.T) {
	tokens := []string{"salmon", "soya lecithin", "tomatoes", "quinoa", "chicken breast"}

	first := make([]Result, len(tokens))
	m := New(fixture())
	for i, tok := range tokens {
		first[i] = m.Match(tok)
	}

	for run := 0; run < 50; run++ {
		// Fresh matcher over freshly built sources each run.
		again := New(fixture())
		for i, tok := range tokens {
			require.Equal(t, first[i], again.Match(tok), "run %d token %q", run, tok)
		}
	}
}

func TestTiersOrder(t *testing.T) {
	tiers := Tiers()
	require.Len(t, tiers, 6)
	assert.Equal(t, TierExact, tiers[0])
	assert.Equal(t, TierNone, tiers[len(tiers)-1])
}
