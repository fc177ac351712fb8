// Command cli runs FinanceFlow's ledger summary, insight and export
// operations against a ledger file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dvloznov/financeflow/internal/config"
	"github.com/dvloznov/financeflow/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what PersistentPreRunE prepares for every subcommand.
type app struct {
	configFile string
	ledgerFile string

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "financeflow",
		Short: "Personal finance ledger with AI spending insights",
		Long: `financeflow summarizes a ledger of income and expense entries,
asks Gemini for spending tips about it and exports it to CSV, GCS, BigQuery or Notion.

Without --file the demo ledger is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			log, err := logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = log
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./config.yaml or $HOME/.financeflow/config.yaml)")
	cmd.PersistentFlags().StringVarP(&a.ledgerFile, "file", "f", "", "ledger file (.json or .csv)")

	cmd.AddCommand(
		newSummaryCmd(a),
		newInsightsCmd(a),
		newExportCmd(a),
	)

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
