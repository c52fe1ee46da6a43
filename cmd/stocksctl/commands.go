package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"anaam-stocks/internal/prompt"
	"anaam-stocks/internal/types"
)

const commandTimeout = 90 * time.Second

func newLoginURLCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login-url",
		Short: "Print the Kite login URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			redirect, _ := cmd.Flags().GetString("redirect-to")
			fmt.Fprintln(cmd.OutOrStdout(), app.Broker.LoginURL(redirect))
			return nil
		},
	}
	cmd.Flags().String("redirect-to", "/", "path to return to after login")
	return cmd
}

func newSessionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "session <request_token>",
		Short:   "Exchange a request token for an access token",
		Example: "  stocksctl session Xy12abc >> .env",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			token, err := app.Broker.ExchangeToken(ctx, args[0])
			if err != nil {
				return err
			}
			app.Session.SetToken(token)
			fmt.Fprintf(cmd.OutOrStdout(), "KITE_ACCESS_TOKEN=%s\n", token)
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history <symbol>",
		Short:   "Print daily candles as JSON",
		Example: "  stocksctl history INFY --range 7d",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			rng, _ := cmd.Flags().GetString("range")
			res, err := app.Engine.Historical(ctx, app.Session, symbolArg(args), rng)
			if err != nil {
				return explain(err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	addRangeFlag(cmd)
	return cmd
}

func newLTPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ltp <symbol>",
		Short: "Print the last traded price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res, err := app.Engine.LastPrice(ctx, app.Session, symbolArg(args))
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", res.Symbol, res.Name, prompt.Rupees(res.LastPrice))
			return nil
		},
	}
}

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Summarise price action with the configured model",
		Example: `  stocksctl analyze RELIANCE
  stocksctl analyze TCS --range 1y --query "How volatile was it?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			rng, _ := cmd.Flags().GetString("range")
			query, _ := cmd.Flags().GetString("query")
			res, err := app.Engine.Analyze(ctx, app.Session, types.AnalysisRequest{
				Symbol:    symbolArg(args),
				DateRange: rng,
				UserQuery: query,
			})
			if err != nil {
				return explain(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), %s\n", res.Name, res.Symbol, res.DateRange)
			printMetrics(cmd, res.Metrics)
			fmt.Fprintf(out, "\n%s\n", res.Summary)
			return nil
		},
	}
	addRangeFlag(cmd)
	cmd.Flags().String("query", "", "question to ask about the data")
	return cmd
}

func newAdviseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise <symbol>",
		Short: "Ask the model for buy, hold or sell advice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			rng, _ := cmd.Flags().GetString("range")
			res, err := app.Engine.Advise(ctx, app.Session, types.AdviceRequest{
				Symbol:    symbolArg(args),
				DateRange: rng,
			})
			if err != nil {
				return explain(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), %s\n", res.Name, res.Symbol, res.DateRange)
			printMetrics(cmd, res.Metrics)
			fmt.Fprintf(out, "\n%s\n", res.Advice)
			return nil
		},
	}
	addRangeFlag(cmd)
	return cmd
}

func addRangeFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("range", "r", "30d", "date range: 7d, 30d or 1y")
}

func printMetrics(cmd *cobra.Command, m types.Metrics) {
	fmt.Fprintf(cmd.OutOrStdout(), "High %s  Low %s  Change %s (%.2f%%)\n",
		prompt.Rupees(m.PeriodHigh), prompt.Rupees(m.PeriodLow), prompt.Rupees(m.PriceChange), m.PriceChangePercent)
}

func symbolArg(args []string) string {
	return strings.ToUpper(strings.TrimSpace(args[0]))
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, commandTimeout)
}

// explain adds a next step to session errors.
func explain(err error) error {
	switch {
	case errors.Is(err, types.ErrNotAuthenticated):
		return fmt.Errorf("%w: set KITE_ACCESS_TOKEN (see 'stocksctl login-url' and 'stocksctl session')", err)
	case errors.Is(err, types.ErrReauthRequired):
		return fmt.Errorf("%w: the access token was rejected, log in again with 'stocksctl login-url'", err)
	}
	return err
}
