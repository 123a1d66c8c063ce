package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

const datasetJSON = `[
  {"id": 1, "name": "Tomato", "food_group": "Vegetables", "food_subgroup": "Fruit vegetables"},
  {"id": 2, "name": "Cow milk", "food_group": "Milk and milk products", "food_subgroup": null},
  {"id": 3, "name": "tomato", "food_group": "Fruits"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoaderDatasetOnly(t *testing.T) {
	dir := t.TempDir()
	loader := &Loader{DatasetPath: writeFile(t, dir, "foods.json", datasetJSON)}

	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if comp.Index.Len() != 3 || comp.Index.Duplicates() != 1 {
		t.Errorf("index Len=%d Duplicates=%d", comp.Index.Len(), comp.Index.Duplicates())
	}
	if comp.Dictionary.Len() == 0 {
		t.Error("expected the built-in dictionary")
	}
	if !comp.Stoplist.IsNoise("www.example.com") {
		t.Error("expected builtin noise terms")
	}
}

func TestLoaderValidFiles(t *testing.T) {
	dir := t.TempDir()
	loader := &Loader{
		DatasetPath:    writeFile(t, dir, "foods.json", datasetJSON),
		DictionaryPath: writeFile(t, dir, "dict.yaml", "groups:\n  - tag: vegan\n    terms: [lecithin, aquafaba]\n"),
		NoisePath:      writeFile(t, dir, "noise.yaml", "terms: [recyclable]\n"),
	}

	comp, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Site dictionary overrides the built-in tag.
	if tag, _ := comp.Dictionary.Lookup("lecithin"); tag != diet.TagVegan {
		t.Errorf("lecithin = %s, want vegan", tag)
	}
	if _, ok := comp.Dictionary.Lookup("aquafaba"); !ok {
		t.Error("aquafaba should be added")
	}
	if _, ok := comp.Dictionary.Lookup("gelatin"); !ok {
		t.Error("built-in entries should remain")
	}
	if !comp.Stoplist.IsNoise("widely recyclable") {
		t.Error("configured noise term missing")
	}
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	dataset := writeFile(t, dir, "foods.json", datasetJSON)

	tests := []struct {
		name   string
		loader Loader
	}{
		{"no dataset path", Loader{}},
		{"missing dataset", Loader{DatasetPath: filepath.Join(dir, "nope.json")}},
		{"malformed dataset", Loader{DatasetPath: writeFile(t, dir, "bad.json", "[{")}},
		{"missing dictionary", Loader{DatasetPath: dataset, DictionaryPath: filepath.Join(dir, "nope.yaml")}},
		{"bad dictionary tag", Loader{DatasetPath: dataset, DictionaryPath: writeFile(t, dir, "tag.yaml", "groups:\n  - tag: insect\n    terms: [cricket]\n")}},
		{"malformed noise", Loader{DatasetPath: dataset, NoisePath: writeFile(t, dir, "noise.yaml", "terms: [")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(context.Background())
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
