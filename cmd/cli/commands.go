package main

import (
	"errors"
	"fmt"

	"github.com/dvloznov/financeflow/internal/aggregate"
	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/export"
	"github.com/dvloznov/financeflow/internal/format"
	"github.com/dvloznov/financeflow/internal/insights"
	"github.com/dvloznov/financeflow/internal/ledger"
	"github.com/spf13/cobra"
)

// loadSnapshot builds a ledger from --file, or from the demo entries when no
// file is given, and returns its snapshot.
func (a *app) loadSnapshot() ([]domain.Transaction, error) {
	store := ledger.NewStore()

	if a.ledgerFile == "" {
		if a.cfg.Ledger.SeedDemo {
			store.Seed(ledger.DemoEntries()...)
		}
		return store.Snapshot(), nil
	}

	entries, err := readLedgerFile(a.ledgerFile)
	if err != nil {
		return nil, err
	}
	store.Seed(entries...)

	a.log.Debug().Str("file", a.ledgerFile).Int("entries", len(entries)).Msg("Ledger file loaded")
	return store.Snapshot(), nil
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print totals, the expense breakdown and the transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.loadSnapshot()
			if err != nil {
				return err
			}
			printSummary(cmd, snapshot)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, snapshot []domain.Transaction) {
	out := cmd.OutOrStdout()
	totals := aggregate.ComputeTotals(snapshot)

	fmt.Fprintf(out, "Receitas: %s\n", format.BRL(totals.Income))
	fmt.Fprintf(out, "Despesas: %s\n", format.BRL(totals.Expense))
	fmt.Fprintf(out, "Saldo:    %s\n", format.BRL(totals.Balance))

	slices := aggregate.Breakdown(aggregate.ByCategory(snapshot))
	if len(slices) > 0 {
		fmt.Fprintln(out, "\nDespesas por categoria:")
		for _, s := range slices {
			fmt.Fprintf(out, "  %-14s %14s  %5.1f%%\n", s.Category, format.BRL(s.Total), s.Share*100)
		}
	}

	fmt.Fprintf(out, "\nTransações (%d):\n", len(snapshot))
	for _, tx := range snapshot {
		fmt.Fprintf(out, "  %s  %-24s %-14s %16s\n", format.Date(tx.Date), tx.Description, tx.Category, format.SignedBRL(tx))
	}
}

func newInsightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Ask Gemini for spending tips about the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.loadSnapshot()
			if err != nil {
				return err
			}
			if len(snapshot) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Adicione transações para receber dicas.")
				return nil
			}

			client, err := insights.NewGeminiClient(cmd.Context(), a.cfg.AI.APIKey,
				insights.WithModel(a.cfg.AI.Model),
				insights.WithTimeout(a.cfg.AITimeout()),
				insights.WithLogger(a.log),
			)
			if err != nil {
				return err
			}

			printInsights(cmd, client.RequestInsights(cmd.Context(), snapshot))
			return nil
		},
	}
}

func printInsights(cmd *cobra.Command, items []domain.Insight) {
	out := cmd.OutOrStdout()
	for i, in := range items {
		fmt.Fprintf(out, "%d. [%s] %s\n   %s\n", i+1, in.Priority, in.Title, in.Description)
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		csvPath      string
		notionDryRun bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to the configured sinks",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.loadSnapshot()
			if err != nil {
				return err
			}

			exportCfg := a.cfg.Export
			if csvPath != "" {
				exportCfg.CSVPath = csvPath
			}
			if notionDryRun {
				exportCfg.NotionDryRun = true
			}

			set, err := export.FromConfig(cmd.Context(), exportCfg, a.log)
			if err != nil {
				return err
			}
			defer set.Close()

			if len(set.Exporters) == 0 {
				return errors.New("no export sinks configured: use --csv or the export.* settings")
			}

			results, err := export.Fanout(cmd.Context(), snapshot, set.Exporters...)
			for _, r := range results {
				status := "ok"
				if r.Error != "" {
					status = "error: " + r.Error
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", r.Sink, status)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "write the ledger as CSV to this path")
	cmd.Flags().BoolVar(&notionDryRun, "notion-dry-run", false, "log the Notion page writes without making them")
	return cmd
}
