package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/ingredo/pkg/ingredo/analytics"
	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/stoplist"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

type coverageReport struct {
	analytics.Stats
	Coverage        float64              `json:"coverage"`
	NoiseCandidates []stoplist.Candidate `json:"noise_candidates"`
}

func newCoverageCmd(a *app) *cobra.Command {
	var (
		pref        string
		fromHistory bool
		history     string
		top         int
		scanLimit   int
		minDF       float64
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "coverage [dir]",
		Short: "Report the most frequent unclassified and ambiguous tokens",
		Long: "Analyzes every .txt transcript in dir, or reads recorded scans with\n" +
			"--from-history, and ranks the tokens that the dictionary should learn next.\n" +
			"Frequent unclassified tokens are also suggested as noise terms.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromHistory == (len(args) == 1) {
				return fmt.Errorf("give either a transcript directory or --from-history")
			}

			an, comp, err := a.buildAnalyzer(cmd.Context(), "", nil)
			if err != nil {
				return err
			}
			defer an.Close()

			var results []classify.Result
			if fromHistory {
				scans, err := a.listHistory(cmd, history, store.ListOptions{Limit: scanLimit})
				if err != nil {
					return err
				}
				for _, s := range scans {
					results = append(results, s.Result)
				}
			} else {
				p, err := a.preference(pref)
				if err != nil {
					return err
				}
				_, texts, err := readTranscripts(args[0])
				if err != nil {
					return err
				}
				results, err = an.AnalyzeBatch(cmd.Context(), texts, p, a.settings.Analyze.Workers)
				if err != nil {
					return err
				}
			}

			agg := analytics.NewAnalyzer()
			for _, r := range results {
				agg.Process(r)
			}
			stats := agg.Snapshot()
			report := coverageReport{
				Stats:           stats.Top(top),
				Coverage:        stats.Coverage(),
				NoiseCandidates: comp.Stoplist.SuggestCandidates(stats.NoiseStats(), minDF),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(out, "scans: %d  tokens: %d  recognised: %.1f%%\n",
				report.TotalScans, report.TotalTokens, report.Coverage*100)
			for _, v := range classify.Verdicts() {
				fmt.Fprintf(out, "  %-8s %d\n", v, report.Verdicts[v])
			}
			printTokenCounts(cmd, "Unclassified", report.Unclassified)
			printTokenCounts(cmd, "Ambiguous", report.Ambiguous)
			if len(report.NoiseCandidates) > 0 {
				fmt.Fprintln(out, "Noise candidates:")
				for _, c := range report.NoiseCandidates {
					fmt.Fprintf(out, "  %-32s %.2f\n", c.Token, c.Score)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pref, "preference", "p", "", "preference used to analyze transcripts")
	cmd.Flags().BoolVar(&fromHistory, "from-history", false, "read recorded scans instead of a directory")
	cmd.Flags().StringVar(&history, "history", "", "history database path (default from settings)")
	cmd.Flags().IntVarP(&top, "top", "n", 20, "tokens to list per section")
	cmd.Flags().IntVar(&scanLimit, "limit", 1000, "most recent scans to read with --from-history")
	cmd.Flags().Float64Var(&minDF, "min-df", 20, "minimum document frequency percent for noise candidates")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printTokenCounts(cmd *cobra.Command, title string, counts []analytics.TokenCount) {
	out := cmd.OutOrStdout()
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", title)
	for _, tc := range counts {
		fmt.Fprintf(out, "  %-32s %4d  %5.1f%%\n", tc.Token, tc.DF, tc.DFPercent)
	}
}

func newPreferencesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preferences",
		Short: "List dietary preferences and what each one excludes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, p := range diet.AllPreferences() {
				pol := diet.PolicyFor(p)
				tags := make([]string, len(pol.DisallowedTags))
				for i, t := range pol.DisallowedTags {
					tags[i] = string(t)
				}
				ambiguous := "ambiguous partition"
				if pol.AmbiguousUnsafe {
					ambiguous = "blacklisted"
				}
				fmt.Fprintf(out, "%-12s excludes: %s; uncertain ingredients: %s\n",
					p.Title(), strings.Join(tags, ", "), ambiguous)
			}
			return nil
		},
	}
}
