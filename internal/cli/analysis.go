package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/notifier"
)

func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newInsightCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <symbol>...",
		Short: "Full technical analysis for one or more symbols",
		Example: `  advisor analyze AAPL
  advisor analyze BTC-USD ETH --days 60
  advisor analyze TSLA --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			asJSON, _ := cmd.Flags().GetBool("json")
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}

			outcomes := make([]model.Outcome, 0, len(args))
			for _, symbol := range args {
				o, err := app.Engine.Analyze(symbol, days)
				if err != nil {
					return err
				}
				outcomes = append(outcomes, o)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if len(outcomes) == 1 {
					return enc.Encode(outcomes[0])
				}
				return enc.Encode(outcomes)
			}
			reports := make([]string, len(outcomes))
			for i, o := range outcomes {
				reports[i] = notifier.FormatReport(o)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(reports, "\n\n"))
			return nil
		},
	}
	cmd.Flags().Int("days", 0, "trend window in bars (0 uses analysis.period_days)")
	cmd.Flags().Bool("json", false, "print the analysis as JSON")
	return cmd
}

func newInsightCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight <symbol>",
		Short: "Answer a question about a symbol in plain language",
		Example: `  advisor insight AAPL
  advisor insight BTC --intent risk_assessment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, _ := cmd.Flags().GetString("intent")
			text, err := app.Engine.Insight(args[0], intent)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().String("intent", string(model.IntentGeneral),
		"should_i_buy, trend_analysis, risk_assessment, price_analysis or general")
	return cmd
}
