// Package storetest is a conformance suite shared by the store backends.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
	"github.com/cognicore/ingredo/pkg/ingredo/match"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

// Open returns an empty store. Run closes it.
type Open func(t *testing.T) store.Store

// Run exercises a backend against the store.Store contract.
func Run(t *testing.T, open Open) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"SaveAssignsIDAndTime", testSaveAssignsIDAndTime},
		{"RoundTrip", testRoundTrip},
		{"GetMissing", testGetMissing},
		{"DuplicateID", testDuplicateID},
		{"ListEmpty", testListEmpty},
		{"ListNewestFirst", testListNewestFirst},
		{"ListFilters", testListFilters},
		{"ListLimit", testListLimit},
		{"ConcurrentSaves", testConcurrentSaves},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

// SampleResult is a small but complete result.
func SampleResult(pref diet.Preference, verdict classify.Verdict) classify.Result {
	return classify.Result{
		Preference: pref,
		Whitelisted: []classify.Item{
			{Name: "Sugar", Tokens: []string{"Sugar"}, Tag: diet.TagVegan, Match: match.Found, Tier: match.TierExact, RecordID: 6, FoodGroup: "Confectioneries"},
		},
		Blacklisted: []classify.Item{
			{Name: "Gelatin", Tokens: []string{"Gelatin", "gelatine"}, Tag: diet.TagAnimal, Match: match.FoundKnown, Tier: match.TierKnown},
		},
		Ambiguous:    []classify.Item{},
		Unclassified: []string{"quinoa"},
		Verdict:      verdict,
		Reasons:      []string{classify.ReasonAnimal, classify.ReasonUnclassified},
	}
}

func sampleScan(pref diet.Preference, verdict classify.Verdict) store.Scan {
	return store.NewScan("Ingredients: Sugar, Gelatin", SampleResult(pref, verdict))
}

func testSaveAssignsIDAndTime(t *testing.T, s store.Store) {
	before := time.Now().Add(-time.Second)
	saved, err := s.SaveScan(context.Background(), sampleScan(diet.Vegan, classify.Unsafe))
	require.NoError(t, err)

	assert.True(t, store.ValidID(saved.ID), "id %q is not a ULID", saved.ID)
	assert.True(t, saved.CreatedAt.After(before), "created_at %v", saved.CreatedAt)
}

func testRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	saved, err := s.SaveScan(ctx, sampleScan(diet.Vegetarian, classify.Unsafe))
	require.NoError(t, err)

	got, err := s.GetScan(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", saved.CreatedAt, got.CreatedAt)
	assert.Equal(t, diet.Vegetarian, got.Preference)
	assert.Equal(t, classify.Unsafe, got.Verdict)
	assert.Equal(t, "Ingredients: Sugar, Gelatin", got.Transcript)
	assert.Equal(t, SampleResult(diet.Vegetarian, classify.Unsafe), got.Result)
}

func testGetMissing(t *testing.T, s store.Store) {
	_, err := s.GetScan(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.True(t, errors.Is(err, internalerr.ErrNotFound), "err = %v", err)
}

func testDuplicateID(t *testing.T, s store.Store) {
	ctx := context.Background()
	scan := sampleScan(diet.Vegan, classify.Unsafe)
	scan.ID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

	_, err := s.SaveScan(ctx, scan)
	require.NoError(t, err)
	_, err = s.SaveScan(ctx, scan)
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate), "err = %v", err)
}

func testListNewestFirst(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		scan := sampleScan(diet.Vegan, classify.Unsafe)
		scan.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		saved, err := s.SaveScan(ctx, scan)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	scans, err := s.ListScans(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, scans, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{scans[0].ID, scans[1].ID, scans[2].ID})
}

// An empty listing is a non-nil slice so it encodes as [] rather than null.
func testListEmpty(t *testing.T, s store.Store) {
	ctx := context.Background()
	scans, err := s.ListScans(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.NotNil(t, scans)
	assert.Empty(t, scans)

	_, err = s.SaveScan(ctx, sampleScan(diet.Vegan, classify.Unsafe))
	require.NoError(t, err)

	scans, err = s.ListScans(ctx, store.ListOptions{Verdict: classify.Safe})
	require.NoError(t, err)
	require.NotNil(t, scans)
	assert.Empty(t, scans)
}

func testListFilters(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, sc := range []store.Scan{
		sampleScan(diet.Vegan, classify.Unsafe),
		sampleScan(diet.Vegan, classify.Safe),
		sampleScan(diet.Pescatarian, classify.Safe),
		sampleScan(diet.Pescatarian, classify.NotSure),
	} {
		_, err := s.SaveScan(ctx, sc)
		require.NoError(t, err)
	}

	vegan, err := s.ListScans(ctx, store.ListOptions{Preference: diet.Vegan})
	require.NoError(t, err)
	assert.Len(t, vegan, 2)

	safe, err := s.ListScans(ctx, store.ListOptions{Verdict: classify.Safe})
	require.NoError(t, err)
	assert.Len(t, safe, 2)

	both, err := s.ListScans(ctx, store.ListOptions{Preference: diet.Pescatarian, Verdict: classify.NotSure})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, classify.NotSure, both[0].Verdict)

	none, err := s.ListScans(ctx, store.ListOptions{Preference: diet.Eggetarian})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testListLimit(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.SaveScan(ctx, sampleScan(diet.Vegan, classify.Safe))
		require.NoError(t, err)
	}

	scans, err := s.ListScans(ctx, store.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, scans, 2)
}

func testConcurrentSaves(t *testing.T, s store.Store) {
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			saved, err := s.SaveScan(ctx, sampleScan(diet.Vegan, classify.Safe))
			ids[i], errs[i] = saved.ID, err
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %s", ids[i])
		seen[ids[i]] = true
	}
}
