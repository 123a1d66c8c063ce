// Package config loads the data files the analyzer needs and the
// application settings.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/lexicon"
	"github.com/cognicore/ingredo/pkg/ingredo/refdb"
	"github.com/cognicore/ingredo/pkg/ingredo/stoplist"
)

// Loader loads all data files and constructs components
type Loader struct {
	DatasetPath    string // required; .json or .db/.sqlite
	DictionaryPath string // optional YAML layered over the built-in dictionary
	NoisePath      string // optional YAML of extra noise terms
	Logger         *slog.Logger
}

// Components holds all loaded data components
type Components struct {
	Index      *refdb.Index
	Dictionary *lexicon.Dictionary
	Stoplist   *stoplist.Manager
}

// Load reads all data files and returns initialized components. Any failure
// is a configuration error and wraps internalerr.ErrInvalidConfig.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	log := l.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	comp := &Components{}

	// Load reference dataset
	if l.DatasetPath == "" {
		return nil, fmt.Errorf("%w: dataset path is required", internalerr.ErrInvalidConfig)
	}
	index, err := refdb.Load(ctx, l.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	comp.Index = index
	log.Info("reference dataset loaded",
		slog.String("path", l.DatasetPath),
		slog.Int("records", index.Len()),
		slog.Int("duplicates", index.Duplicates()))
	if index.Duplicates() > 0 {
		log.Warn("duplicate ingredient names in dataset, later records win",
			slog.Int("duplicates", index.Duplicates()))
	}

	// Load dictionary
	comp.Dictionary = lexicon.Default()
	if l.DictionaryPath != "" {
		extra, err := lexicon.LoadFromYAML(l.DictionaryPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		comp.Dictionary = comp.Dictionary.Merge(extra)
		log.Info("dictionary extended",
			slog.String("path", l.DictionaryPath),
			slog.Int("added_or_overridden", extra.Len()))
	}
	log.Debug("dictionary ready", slog.Int("keywords", comp.Dictionary.Len()))

	// Load noise terms
	if l.NoisePath != "" {
		noise, err := stoplist.LoadFromYAML(l.NoisePath)
		if err != nil {
			return nil, fmt.Errorf("load noise terms: %w", err)
		}
		comp.Stoplist = noise
	} else {
		comp.Stoplist = stoplist.NewManager(nil)
	}
	log.Debug("noise list ready", slog.Int("terms", comp.Stoplist.Len()))

	return comp, nil
}
