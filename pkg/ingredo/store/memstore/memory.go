package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

// Store is an in-memory implementation of store.Store for tests and for
// `serve` without a history file.
type Store struct {
	mu    sync.RWMutex
	ids   *store.IDGenerator
	scans map[string]entry
	now   func() time.Time
}

// Results are kept encoded so callers cannot mutate stored state.
type entry struct {
	scan   store.Scan
	result string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		ids:   store.NewIDGenerator(),
		scans: make(map[string]entry),
		now:   time.Now,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveScan implements store.Store.
func (s *Store) SaveScan(ctx context.Context, scan store.Scan) (store.Scan, error) {
	if err := ctx.Err(); err != nil {
		return store.Scan{}, err
	}
	encoded, err := store.EncodeResult(scan.Result)
	if err != nil {
		return store.Scan{}, fmt.Errorf("encode result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scan = s.ids.Prepare(scan, s.now())
	if _, exists := s.scans[scan.ID]; exists {
		return store.Scan{}, fmt.Errorf("%w: scan %s", internalerr.ErrDuplicate, scan.ID)
	}
	s.scans[scan.ID] = entry{scan: scan, result: encoded}
	return scan, nil
}

// GetScan implements store.Store.
func (s *Store) GetScan(ctx context.Context, id string) (store.Scan, error) {
	s.mu.RLock()
	e, ok := s.scans[id]
	s.mu.RUnlock()
	if !ok {
		return store.Scan{}, fmt.Errorf("%w: scan %s", internalerr.ErrNotFound, id)
	}
	return e.decode()
}

// ListScans implements store.Store. Scans are returned newest first.
func (s *Store) ListScans(ctx context.Context, opts store.ListOptions) ([]store.Scan, error) {
	s.mu.RLock()
	var matched []entry
	for _, e := range s.scans {
		if opts.Matches(e.scan) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i].scan, matched[j].scan
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if limit := opts.EffectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}

	scans := make([]store.Scan, 0, len(matched))
	for _, e := range matched {
		scan, err := e.decode()
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

func (e entry) decode() (store.Scan, error) {
	r, err := store.DecodeResult(e.result)
	if err != nil {
		return store.Scan{}, fmt.Errorf("decode result %s: %w", e.scan.ID, err)
	}
	scan := e.scan
	scan.Result = r
	return scan, nil
}
