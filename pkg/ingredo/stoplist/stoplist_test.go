package stoplist

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

func TestManagerBuiltin(t *testing.T) {
	mgr := NewManager(nil)

	noise := []string{"www.example.com", "Suitable for Vegans", "Image ID: 2B4X", "NET WEIGHT 250g", "Energy 250 kcal"}
	for _, tok := range noise {
		if !mgr.IsNoise(tok) {
			t.Errorf("%q should be noise", tok)
		}
	}

	clean := []string{"Sugar", "Wheat flour", "Cocoa butter", ""}
	for _, tok := range clean {
		if mgr.IsNoise(tok) {
			t.Errorf("%q should not be noise", tok)
		}
	}
}

func TestManagerExtraTerms(t *testing.T) {
	mgr := NewManager([]string{"  Recyclable ", "", "www"})

	if !mgr.IsNoise("Widely recyclable packaging") {
		t.Error("configured term should match")
	}
	if r, _ := mgr.Reason("recyclable"); r != Configured {
		t.Errorf("Reason(recyclable) = %q, want configured", r)
	}
	// A builtin term listed again keeps its builtin reason.
	if r, _ := mgr.Reason("www"); r != Builtin {
		t.Errorf("Reason(www) = %q, want builtin", r)
	}
	if mgr.Len() != len(builtinTerms)+1 {
		t.Errorf("Len() = %d, want %d", mgr.Len(), len(builtinTerms)+1)
	}
}

func TestManagerAllSorted(t *testing.T) {
	mgr := NewManager([]string{"zzz", "aaa"})
	all := mgr.All()
	if !sort.StringsAreSorted(all) {
		t.Errorf("All() not sorted: %v", all)
	}

	all[0] = "mutated"
	if mgr.All()[0] == "mutated" {
		t.Error("All() must return a copy")
	}
}

func TestMatchReturnsTerm(t *testing.T) {
	mgr := NewManager(nil)
	term, ok := mgr.Match("visit http://brand.com")
	if !ok {
		t.Fatal("expected a match")
	}
	// ".com" sorts before "http".
	if term != ".com" {
		t.Errorf("Match = %q, want .com", term)
	}
}

func TestNilManager(t *testing.T) {
	var mgr *Manager
	if mgr.IsNoise("www") {
		t.Error("nil manager should not report noise")
	}
	if mgr.All() != nil || mgr.Len() != 0 {
		t.Error("nil manager should be empty")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.yaml")
	if err := os.WriteFile(path, []byte("terms:\n  - scan me\n  - instagram\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mgr, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if !mgr.IsNoise("Scan me for recipes") || !mgr.IsNoise("@brand on Instagram") {
		t.Error("configured terms not loaded")
	}
	if !mgr.IsNoise("www") {
		t.Error("builtin terms must stay active")
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFromYAML(filepath.Join(dir, "missing.yaml")); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("missing file: err = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("terms: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromYAML(bad); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("malformed file: err = %v", err)
	}
}

func TestSuggestCandidates(t *testing.T) {
	mgr := NewManager(nil)

	stats := []Stats{
		{Token: "scan here", DF: 9, DFPercent: 90},
		{Token: "quinoa", DF: 1, DFPercent: 10},
		{Token: "recyclable", DF: 9, DFPercent: 90},
		{Token: "www.brand.com", DF: 10, DFPercent: 100}, // already noise
		{Token: "keep cool", DF: 6, DFPercent: 60},
	}

	got := mgr.SuggestCandidates(stats, 50)
	want := []string{"recyclable", "scan here", "keep cool"}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(want), got)
	}
	for i, c := range got {
		if c.Token != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, c.Token, want[i])
		}
	}
	if got[0].Score != 0.9 {
		t.Errorf("score = %v, want 0.9", got[0].Score)
	}
}
