package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		pref    string
		html    bool
		asJSON  bool
		record  bool
		history string
	)
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Classify the ingredients of one label transcript",
		Long: "Reads a transcript from a file, or from stdin when the argument is \"-\" or\n" +
			"missing, and prints the partitions and the verdict.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.preference(pref)
			if err != nil {
				return err
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			if record && history == "" {
				history = a.settings.Server.History
			}
			if record && history == "" {
				return fmt.Errorf("--record needs --history or INGREDO_HISTORY")
			}

			an, _, err := a.buildAnalyzer(cmd.Context(), history, nil)
			if err != nil {
				return err
			}
			defer an.Close()

			var r classify.Result
			if html {
				r = an.AnalyzeHTML(text, p)
			} else {
				r = an.Analyze(text, p)
			}
			if record {
				scan, err := an.Record(cmd.Context(), text, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "recorded scan %s\n", scan.ID)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printResult(out, r)
			return nil
		},
	}
	cmd.Flags().StringVarP(&pref, "preference", "p", "", "dietary preference (default from settings)")
	cmd.Flags().BoolVar(&html, "html", false, "input is an HTML product page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&record, "record", false, "save the scan to the history database")
	cmd.Flags().StringVar(&history, "history", "", "history database path")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		pref    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Classify every .txt transcript in a directory, one JSON line each",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.preference(pref)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.settings.Analyze.Workers
			}
			files, texts, err := readTranscripts(args[0])
			if err != nil {
				return err
			}

			an, _, err := a.buildAnalyzer(cmd.Context(), "", nil)
			if err != nil {
				return err
			}
			defer an.Close()

			results, err := an.AnalyzeBatch(cmd.Context(), texts, p, workers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for i, r := range results {
				line := struct {
					File   string          `json:"file"`
					Result classify.Result `json:"result"`
				}{File: files[i], Result: r}
				if err := enc.Encode(line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pref, "preference", "p", "", "dietary preference (default from settings)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default from settings)")
	return cmd
}

func newExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <token>",
		Short: "Show how a single ingredient token is matched and tagged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, _, err := a.buildAnalyzer(cmd.Context(), "", nil)
			if err != nil {
				return err
			}
			defer an.Close()

			e := an.Explain(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token:  %s\n", e.Match.Token)
			fmt.Fprintf(out, "match:  %s (tier %s)\n", e.Match.Kind, e.Match.Tier)
			switch {
			case e.Match.Record != nil:
				fmt.Fprintf(out, "record: %s #%d (%s)\n", e.Match.Record.Name, e.Match.Record.ID, e.Match.Record.FoodGroup)
			case e.Match.Key != "":
				fmt.Fprintf(out, "known:  %s\n", e.Match.Key)
			}
			tag := string(e.Tag)
			if tag == "" {
				tag = "-"
			}
			fmt.Fprintf(out, "tag:    %s\n", tag)
			for _, p := range diet.AllPreferences() {
				fmt.Fprintf(out, "  %-12s %s\n", p, e.Partitions[p])
			}
			return nil
		},
	}
}

func printResult(w io.Writer, r classify.Result) {
	fmt.Fprintf(w, "Verdict: %s (%s)\n", r.Verdict, r.Preference.Title())
	for _, reason := range r.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}
	fmt.Fprintf(w, "Whitelisted:  %s\n", joinItems(r.Whitelisted))
	fmt.Fprintf(w, "Blacklisted:  %s\n", joinItems(r.Blacklisted))
	fmt.Fprintf(w, "Ambiguous:    %s\n", joinItems(r.Ambiguous))
	fmt.Fprintf(w, "Unclassified: %s\n", joinList(r.Unclassified))
}

func joinItems(items []classify.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s [%s]", it.Name, it.Tag)
	}
	return joinList(parts)
}

func joinList(parts []string) string {
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

// readTranscripts returns the .txt files of dir in name order with their
// contents.
func readTranscripts(dir string) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read transcripts: %w", err)
	}
	var files, texts []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read transcript %s: %w", path, err)
		}
		files = append(files, e.Name())
		texts = append(texts, string(data))
	}
	return files, texts, nil
}
