package analytics

import (
	"testing"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/match"
	"github.com/cognicore/ingredo/pkg/ingredo/stoplist"
)

func result(verdict classify.Verdict, unclassified []string, items ...classify.Item) classify.Result {
	r := classify.Result{Preference: diet.Vegan, Verdict: verdict, Unclassified: unclassified}
	for _, it := range items {
		if it.Tag == diet.TagVegan {
			r.Whitelisted = append(r.Whitelisted, it)
		} else {
			r.Blacklisted = append(r.Blacklisted, it)
		}
	}
	return r
}

func item(name string, tag diet.Tag, tier match.Tier, tokens ...string) classify.Item {
	return classify.Item{Name: name, Tokens: tokens, Tag: tag, Tier: tier}
}

func TestAnalyzerProcess(t *testing.T) {
	a := NewAnalyzer()

	a.Process(result(classify.Unsafe, []string{"Scan here", "quinoa"},
		item("Sugar", diet.TagVegan, match.TierExact, "Sugar"),
		item("lecithin", diet.TagAmbiguous, match.TierKnownFuzzy, "soya lecithin", "Lecithin"),
	))
	a.Process(result(classify.Safe, []string{"scan here"},
		item("Salt", diet.TagVegan, match.TierKnown, "Salt"),
	))
	a.Process(result(classify.Unsafe, []string{"SCAN HERE", "scan here"},
		item("lecithin", diet.TagAmbiguous, match.TierKnown, "lecithin"),
	))

	s := a.Snapshot()
	if s.TotalScans != 3 {
		t.Fatalf("TotalScans = %d, want 3", s.TotalScans)
	}
	if s.Verdicts[classify.Unsafe] != 2 || s.Verdicts[classify.Safe] != 1 {
		t.Errorf("Verdicts = %v", s.Verdicts)
	}
	if s.TotalTokens != 10 || s.Recognised != 5 {
		t.Errorf("TotalTokens=%d Recognised=%d, want 10/5", s.TotalTokens, s.Recognised)
	}
	if s.Coverage() != 0.5 {
		t.Errorf("Coverage() = %v, want 0.5", s.Coverage())
	}
	if s.Tiers["known_fuzzy"] != 2 || s.Tiers["none"] != 5 {
		t.Errorf("Tiers = %v", s.Tiers)
	}

	// Counted once per scan even when repeated with different casing.
	if len(s.Unclassified) != 2 {
		t.Fatalf("Unclassified = %+v", s.Unclassified)
	}
	top := s.Unclassified[0]
	if top.Token != "scan here" || top.DF != 3 || top.DFPercent != 100 {
		t.Errorf("top unclassified = %+v", top)
	}

	if len(s.Ambiguous) != 2 {
		t.Fatalf("Ambiguous = %+v", s.Ambiguous)
	}
	if s.Ambiguous[0].Token != "lecithin" || s.Ambiguous[0].DF != 2 {
		t.Errorf("top ambiguous = %+v", s.Ambiguous[0])
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	a := NewAnalyzer()
	a.Process(result(classify.NotSure, nil))

	s := a.Snapshot()
	s.Verdicts[classify.NotSure] = 42

	if a.Snapshot().Verdicts[classify.NotSure] != 1 {
		t.Error("Snapshot must not alias analyzer state")
	}
}

func TestTop(t *testing.T) {
	a := NewAnalyzer()
	a.Process(result(classify.NotSure, []string{"a1", "b2", "c3"}))

	s := a.Snapshot().Top(2)
	if len(s.Unclassified) != 2 {
		t.Errorf("Top(2) kept %d", len(s.Unclassified))
	}
	if got := a.Snapshot().Top(-1); len(got.Unclassified) != 0 {
		t.Errorf("Top(-1) kept %d", len(got.Unclassified))
	}
}

func TestEmptyCoverage(t *testing.T) {
	if c := NewAnalyzer().Snapshot().Coverage(); c != 0 {
		t.Errorf("Coverage() = %v, want 0", c)
	}
}

func TestNoiseStatsFeedSuggestions(t *testing.T) {
	a := NewAnalyzer()
	for i := 0; i < 4; i++ {
		a.Process(result(classify.NotSure, []string{"Recyclable"}))
	}
	a.Process(result(classify.NotSure, []string{"quinoa"}))

	candidates := stoplist.NewManager(nil).SuggestCandidates(a.Snapshot().NoiseStats(), 50)
	if len(candidates) != 1 || candidates[0].Token != "recyclable" {
		t.Errorf("candidates = %+v", candidates)
	}
}
