package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/settleup/internal/adapter/idgen"
	"github.com/iho/settleup/internal/domain"
	"github.com/iho/settleup/internal/usecase"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// errInvalidDebts makes the validate command exit non-zero.
var errInvalidDebts = errors.New("debts are invalid: every amount must be positive")

type options struct {
	file    string
	output  string
	baseURL string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "settleup-cli",
		Short:         "SettleUp CLI tool",
		Long:          `Split group expenses, aggregate balances and compute minimal settlement payments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Read JSON input from file instead of stdin")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table or json")

	svc := usecase.NewSettlementUseCase(usecase.SettlementConfig{
		IDGen:  idgen.NewULIDGenerator(),
		Logger: zerolog.Nop(),
	})

	rootCmd.AddCommand(
		splitCmd(opts, svc),
		balancesCmd(opts, svc),
		simplifyCmd(opts, svc),
		validateCmd(opts, svc),
		planCmd(opts, svc),
		rpcCmd(opts),
	)

	return rootCmd
}

func splitCmd(opts *options, svc *usecase.SettlementUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Split one expense among its participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var expense domain.Expense
			if err := readInput(cmd, opts, &expense); err != nil {
				return err
			}

			result, err := svc.SplitExpense(cmd.Context(), expense)
			if err != nil {
				return err
			}

			return render(cmd, opts, result, func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "PARTICIPANT\tSHARE\tEXTRA")
				for _, s := range result.Shares {
					fmt.Fprintf(w, "%s\t%s\t%v\n", s.AttendeeID, domain.FormatCents(s.ShareCents), s.ExtraCent)
				}
				fmt.Fprintf(w, "TOTAL\t%s\t\n", domain.FormatCents(result.Total()))
			})
		},
	}
}

func balancesCmd(opts *options, svc *usecase.SettlementUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Aggregate net balances across expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var expenses []domain.Expense
			if err := readInput(cmd, opts, &expenses); err != nil {
				return err
			}

			balances, err := svc.CalculateBalances(cmd.Context(), expenses)
			if err != nil {
				return err
			}

			return render(cmd, opts, balances, func(w *tabwriter.Writer) {
				writeBalances(w, balances)
			})
		},
	}
}

func simplifyCmd(opts *options, svc *usecase.SettlementUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify",
		Short: "Reduce debts to the fewest settlement payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var debts []domain.Debt
			if err := readInput(cmd, opts, &debts); err != nil {
				return err
			}

			result, err := svc.OptimizeSettlements(cmd.Context(), debts)
			if err != nil {
				return err
			}

			return render(cmd, opts, result, func(w *tabwriter.Writer) {
				writePayments(w, result)
			})
		},
	}
}

func validateCmd(opts *options, svc *usecase.SettlementUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every debt has a positive amount",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var debts []domain.Debt
			if err := readInput(cmd, opts, &debts); err != nil {
				return err
			}

			valid := svc.ValidateDebts(cmd.Context(), debts)
			if err := render(cmd, opts, map[string]bool{"valid": valid}, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "VALID\t%v\n", valid)
			}); err != nil {
				return err
			}

			if !valid {
				return errInvalidDebts
			}
			return nil
		},
	}
}

func planCmd(opts *options, svc *usecase.SettlementUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Compute balances and settlement payments for a set of expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var expenses []domain.Expense
			if err := readInput(cmd, opts, &expenses); err != nil {
				return err
			}

			plan, err := svc.SettleExpenses(cmd.Context(), expenses)
			if err != nil {
				return err
			}

			return render(cmd, opts, plan, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "PLAN\t%s\n\n", plan.ID)
				writeBalances(w, plan.Balances)
				fmt.Fprintln(w)
				writePayments(w, &plan.Result)
			})
		},
	}
}

func writeBalances(w io.Writer, balances []domain.BalanceSummary) {
	fmt.Fprintln(w, "PARTICIPANT\tPAID\tOWED\tNET")
	for _, b := range balances {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.AttendeeID,
			domain.FormatCents(b.TotalPaidCents),
			domain.FormatCents(b.TotalOwedCents),
			domain.FormatCents(b.NetBalanceCents))
	}
}

func writePayments(w io.Writer, result *domain.SimplificationResult) {
	fmt.Fprintln(w, "FROM\tTO\tAMOUNT")
	for _, p := range result.Payments {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.From, p.To, domain.FormatCents(p.AmountCents))
	}
	fmt.Fprintf(w, "\n%d debts -> %d payments (%.1f%% saved)\n",
		result.OriginalCount, result.OptimizedCount, result.SavingsPercent)
}

// readInput decodes JSON from --file or the command's stdin.
func readInput(cmd *cobra.Command, opts *options, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}
	return nil
}

// render prints v as indented JSON or as a table drawn by table.
func render(cmd *cobra.Command, opts *options, v any, table func(w *tabwriter.Writer)) error {
	out := cmd.OutOrStdout()

	switch opts.output {
	case outputJSON:
		return printJSON(out, v)
	case outputTable:
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// commandContext bounds ctx by timeout when one is set.
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
