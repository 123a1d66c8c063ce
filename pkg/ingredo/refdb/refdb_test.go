package refdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

func loadFixture(t *testing.T) *Index {
	t.Helper()
	ix, err := LoadJSON(filepath.Join("testdata", "foods.json"))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	return ix
}

func TestLoadJSONFixture(t *testing.T) {
	ix := loadFixture(t)

	// Record 7 has no name and is skipped.
	if ix.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", ix.Len())
	}
	if ix.Duplicates() != 1 {
		t.Errorf("Duplicates() = %d, want 1", ix.Duplicates())
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	ix := loadFixture(t)

	rec, ok := ix.Lookup("COW MILK")
	if !ok {
		t.Fatal("expected COW MILK to be found")
	}
	if rec.ID != 2 || rec.FoodGroup != "Milk and milk products" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestLookupDuplicateLastWriteWins(t *testing.T) {
	ix := loadFixture(t)

	rec, ok := ix.Lookup("Tomato")
	if !ok {
		t.Fatal("expected Tomato")
	}
	if rec.ID != 8 {
		t.Errorf("duplicate name should resolve to the later record, got id %d", rec.ID)
	}
}

func TestLookupAccentInsensitive(t *testing.T) {
	ix := loadFixture(t)

	if _, ok := ix.Lookup("jalapeno   pepper"); !ok {
		t.Error("accent and whitespace differences should not block lookup")
	}
}

func TestLookupNilIndex(t *testing.T) {
	var ix *Index
	if _, ok := ix.Lookup("tomato"); ok {
		t.Error("nil index should find nothing")
	}
	if ix.Len() != 0 {
		t.Error("nil index should be empty")
	}
}

func TestLemmatize(t *testing.T) {
	tests := map[string]string{
		"tomatoes":        "tomato",
		"Peanuts":         "peanut",
		"roasted peanuts": "roasted peanut",
		"chicken":         "chicken",
		"":                "",
	}
	for in, want := range tests {
		if got := Lemmatize(in); got != want {
			t.Errorf("Lemmatize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSimilar(t *testing.T) {
	ix := loadFixture(t)

	rec, ok := ix.Similar("free range chicken breast")
	if !ok || rec.ID != 3 {
		t.Fatalf("Similar(chicken breast) = %+v, %v", rec, ok)
	}

	// Containment in the other direction: the record name contains the token.
	rec, ok = ix.Similar("salmon")
	if !ok || rec.ID != 5 {
		t.Errorf("Similar(salmon) = %+v, %v; want Atlantic salmon", rec, ok)
	}

	if _, ok := ix.Similar("xanthan gum"); ok {
		t.Error("xanthan gum should not resemble anything in the fixture")
	}
}

func TestSimilarPrefersWordStarts(t *testing.T) {
	ix := NewIndex([]Record{
		{ID: 1, Name: "Tea", FoodGroup: "Teas"},
		{ID: 2, Name: "Beef steak", FoodGroup: "Animal foods"},
	})

	// Tea comes first in the dataset but only occurs inside a word.
	rec, ok := ix.Similar("steak")
	if !ok || rec.ID != 2 {
		t.Errorf("Similar(steak) = %+v, %v; want Beef steak", rec, ok)
	}
	rec, ok = ix.Similar("green tea extract")
	if !ok || rec.ID != 1 {
		t.Errorf("Similar(green tea extract) = %+v, %v; want Tea", rec, ok)
	}
}

func TestSimilarFallsBackToContainment(t *testing.T) {
	ix := NewIndex([]Record{
		{ID: 1, Name: "Tea", FoodGroup: "Teas"},
		{ID: 2, Name: "Milk", FoodGroup: "Milk and milk products"},
	})

	rec, ok := ix.Similar("wholemilk powder")
	if !ok || rec.ID != 2 {
		t.Errorf("Similar(wholemilk powder) = %+v, %v; want Milk", rec, ok)
	}
	rec, ok = ix.Similar("buttermilk")
	if !ok || rec.ID != 2 {
		t.Errorf("Similar(buttermilk) = %+v, %v; want Milk", rec, ok)
	}
	if rec, ok := ix.Similar("steak"); ok {
		t.Errorf("Similar(steak) = %+v, want no match for a three-letter name inside a word", rec)
	}
}

func TestContainsWordPrefix(t *testing.T) {
	tests := []struct {
		hay, needle string
		want        bool
	}{
		{"beef gelatine", "gelatin", true},
		{"gelatine", "gelatin", true},
		{"steak", "tea", false},
		{"anchovy", "an", false},
		{"skimmed milk powder", "milk", true},
		{"milk", "skimmed milk", false},
		{"tea-tea", "tea", true},
	}
	for _, tt := range tests {
		if got := ContainsWordPrefix(tt.hay, tt.needle); got != tt.want {
			t.Errorf("ContainsWordPrefix(%q, %q) = %v, want %v", tt.hay, tt.needle, got, tt.want)
		}
	}
}

func TestContainsPart(t *testing.T) {
	tests := []struct {
		hay, needle string
		want        bool
	}{
		{"buttermilk", "milk", true},
		{"wholemilk powder", "milk", true},
		{"beef gelatine", "gelatin", true},
		{"steak", "tea", false},
		{"champignons", "ham", false},
		{"anchovy", "an", false},
		{"milk", "skimmed milk", false},
		{"", "milk", false},
	}
	for _, tt := range tests {
		if got := ContainsPart(tt.hay, tt.needle); got != tt.want {
			t.Errorf("ContainsPart(%q, %q) = %v, want %v", tt.hay, tt.needle, got, tt.want)
		}
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON("/nonexistent/foods.json")
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[{"id": "one"`))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestReadJSONEmpty(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[]`))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("empty dataset should be a configuration error, got %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(context.Background(), "foods.csv")
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := loadFixture(t)
	dbPath := filepath.Join(t.TempDir(), "foods.db")

	if err := WriteSQLite(ctx, dbPath, src.Records()); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}

	ix, err := Load(ctx, dbPath)
	if err != nil {
		t.Fatalf("Load sqlite: %v", err)
	}
	if ix.Len() != src.Len() {
		t.Fatalf("Len() = %d, want %d", ix.Len(), src.Len())
	}
	rec, ok := ix.Lookup("chicken")
	if !ok || rec.FoodGroup != "Animal foods" || rec.NameScientific != "Gallus gallus" {
		t.Errorf("unexpected record after round trip: %+v", rec)
	}
}

func TestLoadSQLiteMinimalTable(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fooddb.sqlite")

	// A bare export with only the columns the app used.
	if err := WriteSQLite(ctx, dbPath, []Record{{ID: 1, Name: "x"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	db := openRW(t, dbPath)
	for _, stmt := range []string{
		`DROP TABLE foods`,
		`CREATE TABLE foods (name TEXT, food_group TEXT, food_subgroup TEXT)`,
		`INSERT INTO foods VALUES ('Lentil', 'Pulses', 'Lentils'), ('Egg', 'Eggs', NULL)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	db.Close()

	ix, err := LoadSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	rec, ok := ix.Lookup("egg")
	if !ok || rec.ID != 2 || rec.FoodGroup != "Eggs" {
		t.Errorf("rowid should stand in for id, got %+v", rec)
	}
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")
	_, err := LoadSQLite(context.Background(), path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("loader must not create the dataset file")
	}
}
