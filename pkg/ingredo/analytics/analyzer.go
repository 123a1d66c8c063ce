// Package analytics aggregates many classification results into coverage
// statistics, used to decide which tokens the dictionary or the noise list
// should learn next.
package analytics

import (
	"sort"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/refdb"
	"github.com/cognicore/ingredo/pkg/ingredo/stoplist"
)

// Analyzer aggregates scan-level token stats. It is not safe for concurrent
// use; feed it from one goroutine.
type Analyzer struct {
	totalScans     int64
	totalTokens    int64
	recognised     int64
	verdicts       map[classify.Verdict]int64
	tiers          map[string]int64
	unclassifiedDF map[string]int64
	ambiguousDF    map[string]int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		verdicts:       make(map[classify.Verdict]int64),
		tiers:          make(map[string]int64),
		unclassifiedDF: make(map[string]int64),
		ambiguousDF:    make(map[string]int64),
	}
}

// Process consumes one scan result. Tokens are folded, so "Lecithin" and
// "lecithin" count as the same token, and each token counts once per scan.
func (a *Analyzer) Process(r classify.Result) {
	a.totalScans++
	a.verdicts[r.Verdict]++

	for _, part := range [][]classify.Item{r.Whitelisted, r.Blacklisted, r.Ambiguous} {
		for _, item := range part {
			n := int64(len(item.Tokens))
			a.tiers[string(item.Tier)] += n
			a.recognised += n
			a.totalTokens += n
		}
	}
	a.totalTokens += int64(len(r.Unclassified))
	a.tiers["none"] += int64(len(r.Unclassified))

	countOnce(a.unclassifiedDF, r.Unclassified)

	var ambiguous []string
	for _, item := range r.ByTag(diet.TagAmbiguous) {
		ambiguous = append(ambiguous, item.Tokens...)
	}
	countOnce(a.ambiguousDF, ambiguous)
}

func countOnce(df map[string]int64, tokens []string) {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		key := refdb.Fold(tok)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		df[key]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalScans   int64                      `json:"total_scans"`
	TotalTokens  int64                      `json:"total_tokens"`
	Recognised   int64                      `json:"recognised"`
	Verdicts     map[classify.Verdict]int64 `json:"verdicts"`
	Tiers        map[string]int64           `json:"tiers"`
	Unclassified []TokenCount               `json:"unclassified"`
	Ambiguous    []TokenCount               `json:"ambiguous"`
}

// TokenCount is a token's document frequency across scans.
type TokenCount struct {
	Token     string  `json:"token"`
	DF        int64   `json:"df"`
	DFPercent float64 `json:"df_percent"`
}

// Snapshot returns a copy of the accumulated statistics. Token lists are
// ordered by DF, then token.
func (a *Analyzer) Snapshot() Stats {
	s := Stats{
		TotalScans:  a.totalScans,
		TotalTokens: a.totalTokens,
		Recognised:  a.recognised,
		Verdicts:    make(map[classify.Verdict]int64, len(a.verdicts)),
		Tiers:       make(map[string]int64, len(a.tiers)),
	}
	for k, v := range a.verdicts {
		s.Verdicts[k] = v
	}
	for k, v := range a.tiers {
		s.Tiers[k] = v
	}
	s.Unclassified = ranked(a.unclassifiedDF, a.totalScans)
	s.Ambiguous = ranked(a.ambiguousDF, a.totalScans)
	return s
}

func ranked(df map[string]int64, total int64) []TokenCount {
	out := make([]TokenCount, 0, len(df))
	for tok, n := range df {
		tc := TokenCount{Token: tok, DF: n}
		if total > 0 {
			tc.DFPercent = float64(n) / float64(total) * 100
		}
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DF != out[j].DF {
			return out[i].DF > out[j].DF
		}
		return out[i].Token < out[j].Token
	})
	return out
}

// Coverage is the fraction of tokens that matched something.
func (s Stats) Coverage() float64 {
	if s.TotalTokens == 0 {
		return 0
	}
	return float64(s.Recognised) / float64(s.TotalTokens)
}

// Top returns a copy with both token lists cut to n entries.
func (s Stats) Top(n int) Stats {
	if n < 0 {
		n = 0
	}
	if len(s.Unclassified) > n {
		s.Unclassified = s.Unclassified[:n]
	}
	if len(s.Ambiguous) > n {
		s.Ambiguous = s.Ambiguous[:n]
	}
	return s
}

// NoiseStats converts the unclassified token counts into the format expected
// by stoplist.Manager.SuggestCandidates.
func (s Stats) NoiseStats() []stoplist.Stats {
	out := make([]stoplist.Stats, len(s.Unclassified))
	for i, tc := range s.Unclassified {
		out[i] = stoplist.Stats{Token: tc.Token, DF: int(tc.DF), DFPercent: tc.DFPercent}
	}
	return out
}
