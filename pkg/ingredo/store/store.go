package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
)

// Store persists scan history. Classification never reads from it.
type Store interface {
	Close() error

	// SaveScan assigns an ID and timestamp when they are empty and returns
	// the stored scan.
	SaveScan(ctx context.Context, s Scan) (Scan, error)
	GetScan(ctx context.Context, id string) (Scan, error)
	ListScans(ctx context.Context, opts ListOptions) ([]Scan, error)
}

// Scan is one recorded analysis.
type Scan struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	Preference diet.Preference  `json:"preference"`
	Verdict    classify.Verdict `json:"verdict"`
	Transcript string           `json:"transcript"`
	Result     classify.Result  `json:"result"`
}

// NewScan captures a transcript and its result.
func NewScan(transcript string, r classify.Result) Scan {
	return Scan{
		Preference: r.Preference,
		Verdict:    r.Verdict,
		Transcript: transcript,
		Result:     r,
	}
}

// ListOptions filters ListScans. Zero values mean no filter.
type ListOptions struct {
	Preference diet.Preference
	Verdict    classify.Verdict
	Limit      int
}

// DefaultListLimit applies when ListOptions.Limit is not positive.
const DefaultListLimit = 50

// EffectiveLimit returns Limit or DefaultListLimit.
func (o ListOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Matches reports whether s passes the filters.
func (o ListOptions) Matches(s Scan) bool {
	if o.Preference != "" && s.Preference != o.Preference {
		return false
	}
	if o.Verdict != "" && s.Verdict != o.Verdict {
		return false
	}
	return true
}

// EncodeResult serialises a result for backends that store it as text.
func EncodeResult(r classify.Result) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeResult is the inverse of EncodeResult.
func DecodeResult(data string) (classify.Result, error) {
	var r classify.Result
	err := json.Unmarshal([]byte(data), &r)
	return r, err
}
