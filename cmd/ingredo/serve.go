package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cognicore/ingredo/internal/server"
	"github.com/cognicore/ingredo/pkg/ingredo/classify"
	"github.com/cognicore/ingredo/pkg/ingredo/metrics"
	"github.com/cognicore/ingredo/pkg/ingredo/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, history string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.settings.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if history != "" {
				cfg.History = history
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m, err := metrics.NewAnalyzer(reg)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			an, comp, err := a.buildAnalyzer(cmd.Context(), cfg.History, m)
			if err != nil {
				return err
			}
			defer an.Close()

			srv, err := server.New(server.Options{
				Analyzer:        an,
				Logger:          a.log,
				Gatherer:        reg,
				Preference:      a.settings.Preference(),
				ReadTimeout:     cfg.ReadTimeout,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})
			if err != nil {
				return err
			}
			a.log.Info("starting ingredo",
				slog.String("addr", cfg.Addr),
				slog.Int("records", comp.Index.Len()),
				slog.Int("keywords", comp.Dictionary.Len()),
				slog.Bool("history", cfg.History != ""))
			return srv.Run(cmd.Context(), cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings)")
	cmd.Flags().StringVar(&history, "history", "", "history database path; empty disables history")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		history string
		pref    string
		verdict string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := store.ListOptions{Limit: limit}
			if verdict != "" {
				opts.Verdict = classify.Verdict(verdict)
				if !slices.Contains(classify.Verdicts(), opts.Verdict) {
					return fmt.Errorf("unknown verdict %q", verdict)
				}
			}
			if pref != "" {
				p, err := a.preference(pref)
				if err != nil {
					return err
				}
				opts.Preference = p
			}
			scans, err := a.listHistory(cmd, history, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range scans {
				fmt.Fprintf(out, "%s  %s  %-12s %-8s %s\n",
					s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Preference, s.Verdict,
					summarize(s.Transcript, 48))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&history, "history", "", "history database path (default from settings)")
	cmd.Flags().StringVarP(&pref, "preference", "p", "", "only scans for this preference")
	cmd.Flags().StringVar(&verdict, "verdict", "", "only scans with this verdict")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum scans to list")
	return cmd
}

// listHistory reads scans straight from the history database without loading
// the reference dataset.
func (a *app) listHistory(cmd *cobra.Command, path string, opts store.ListOptions) ([]store.Scan, error) {
	if path == "" {
		path = a.settings.Server.History
	}
	if path == "" {
		return nil, fmt.Errorf("no history database: set --history or INGREDO_HISTORY")
	}
	st, err := a.openStore(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.ListScans(cmd.Context(), opts)
}

func summarize(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\r' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return string(r)
}
