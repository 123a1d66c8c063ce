// Package ingredo reads the ingredient list off a food label transcript and
// says whether the product fits a dietary preference.
//
// An Analyzer composes the pipeline: ingest extracts and tokenizes the
// ingredient section, match resolves every token against the reference
// database and the known-ingredient dictionary, and classify tags and
// partitions the tokens and derives the verdict.
//
//	a, err := ingredo.New(ingredo.Options{Index: index})
//	r := a.Analyze("Ingredients: Milk, Sugar, Gelatin, Salt", diet.Vegan)
//	// r.Verdict == classify.Unsafe
//
// Analysis is a pure function of the transcript, the preference and the data
// loaded at construction. An Analyzer is safe for concurrent use.
package ingredo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/ingredo/internal/htmltext"
	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/ingest"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/lexicon"
	"github.com/cognicore/ingredo/pkg/ingredo/match"
	"github.com/cognicore/ingredo/pkg/ingredo/metrics"
	"github.com/cognicore/ingredo/pkg/ingredo/refdb"
	"github.com/cognicore/ingredo/pkg/ingredo/stoplist"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

// Analyzer is the pipeline facade.
type Analyzer struct {
	tokenizer  *ingest.Tokenizer
	matcher    *match.Matcher
	classifier *classify.Classifier
	log        *slog.Logger
	metrics    *metrics.Analyzer
	store      store.Store
}

// Options configures an Analyzer. Only Index is required.
type Options struct {
	Index      *refdb.Index
	Dictionary *lexicon.Dictionary // nil: lexicon.Default()
	Stoplist   *stoplist.Manager   // nil: builtin noise terms
	FoodGroups *diet.FoodGroups    // nil: diet.DefaultFoodGroups()
	Logger     *slog.Logger
	Metrics    *metrics.Analyzer
	Store      store.Store // scan history; nil disables Record and History
}

// New creates an Analyzer with the given dependencies.
func New(opts Options) (*Analyzer, error) {
	if opts.Index == nil {
		return nil, fmt.Errorf("%w: reference index is required", internalerr.ErrInvalidConfig)
	}
	dict := opts.Dictionary
	if dict == nil {
		dict = lexicon.Default()
	}
	groups := diet.DefaultFoodGroups()
	if opts.FoodGroups != nil {
		groups = *opts.FoodGroups
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Analyzer{
		tokenizer:  ingest.NewTokenizer(opts.Stoplist),
		matcher:    match.New(opts.Index, dict),
		classifier: classify.New(groups, dict),
		log:        log,
		metrics:    opts.Metrics,
		store:      opts.Store,
	}, nil
}

// Close releases the history store, if any.
func (a *Analyzer) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Analyze classifies a plain-text transcript for pref. It never fails: empty
// or unreadable input yields an empty result with a notSure verdict.
func (a *Analyzer) Analyze(transcript string, pref diet.Preference) classify.Result {
	start := time.Now()

	tokens := a.tokenizer.Process(transcript)
	b := a.classifier.NewBuilder(pref)
	for _, tok := range tokens {
		m := a.matcher.Match(tok)
		a.metrics.RecordMatchTier(string(m.Tier))
		b.Add(m)
	}
	r := b.Result()

	elapsed := time.Since(start)
	a.metrics.RecordScan(string(r.Preference), string(r.Verdict), elapsed)
	for part, n := range r.Counts() {
		a.metrics.RecordTokens(string(part), n)
	}
	a.log.Debug("transcript analyzed",
		slog.String("preference", string(r.Preference)),
		slog.String("verdict", string(r.Verdict)),
		slog.Int("tokens", len(tokens)),
		slog.Int("unclassified", len(r.Unclassified)),
		slog.Duration("elapsed", elapsed))
	return r
}

// AnalyzeHTML extracts the visible text of a product page and analyzes it.
func (a *Analyzer) AnalyzeHTML(markup string, pref diet.Preference) classify.Result {
	return a.Analyze(htmltext.Extract(markup), pref)
}

// AnalyzeBatch analyzes transcripts concurrently with at most workers
// goroutines (GOMAXPROCS when workers <= 0). Results keep input order. When
// ctx is cancelled no new transcripts are started and ctx's error is returned.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, transcripts []string, pref diet.Preference, workers int) ([]classify.Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]classify.Result, len(transcripts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range transcripts {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.Analyze(transcripts[i], pref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.log.Debug("batch analyzed",
		slog.Int("transcripts", len(transcripts)),
		slog.Int("workers", workers))
	return results, nil
}

// Record stores a scan in the history store.
func (a *Analyzer) Record(ctx context.Context, transcript string, r classify.Result) (store.Scan, error) {
	if a.store == nil {
		return store.Scan{}, internalerr.ErrStoreUnavailable
	}
	scan, err := a.store.SaveScan(ctx, store.NewScan(transcript, r))
	a.metrics.RecordHistorySave(err)
	if err != nil {
		a.log.Error("failed to record scan", slog.Any("error", err))
		return store.Scan{}, fmt.Errorf("record scan: %w", err)
	}
	a.log.Info("scan recorded",
		slog.String("id", scan.ID),
		slog.String("verdict", string(scan.Verdict)))
	return scan, nil
}

// History lists recorded scans, newest first.
func (a *Analyzer) History(ctx context.Context, opts store.ListOptions) ([]store.Scan, error) {
	if a.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	return a.store.ListScans(ctx, opts)
}

// Scan loads one recorded scan.
func (a *Analyzer) Scan(ctx context.Context, id string) (store.Scan, error) {
	if a.store == nil {
		return store.Scan{}, internalerr.ErrStoreUnavailable
	}
	return a.store.GetScan(ctx, id)
}

// Explanation describes how a single token is resolved.
type Explanation struct {
	Match      match.Result                       `json:"match"`
	Tag        diet.Tag                           `json:"tag,omitempty"`
	Partitions map[diet.Preference]diet.Partition `json:"partitions"`
}

// Explain runs one token through the matcher and classifier for every
// preference. The token is not cleaned or noise-filtered first.
func (a *Analyzer) Explain(token string) Explanation {
	m := a.matcher.Match(token)
	tag, _ := a.classifier.Tag(m)
	e := Explanation{Match: m, Tag: tag, Partitions: make(map[diet.Preference]diet.Partition)}
	for _, pref := range diet.AllPreferences() {
		_, e.Partitions[pref] = a.classifier.Classify(m, pref)
	}
	return e
}
