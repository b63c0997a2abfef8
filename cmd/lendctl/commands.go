package main

import (
	"encoding/json"
	"errors"

	"lending-ledger/internal/usecase/loan"

	"github.com/spf13/cobra"
)

type action func(cmd *cobra.Command, args []string, uc *loan.Usecase) (any, error)

// run opens the ledger, hands the usecase to fn and prints the result.
func run(open opener, fn action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := open()
		if err != nil {
			return err
		}
		defer a.Close()
		out, err := fn(cmd, args, a.Usecase)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

func offerCmd(open opener) *cobra.Command {
	var (
		amount, rate float64
		deadline     uint64
	)
	cmd := &cobra.Command{
		Use:   "offer <borrower>",
		Short: "Offer a loan to a borrower",
		Args:  cobra.ExactArgs(1),
		RunE: run(open, func(c *cobra.Command, args []string, uc *loan.Usecase) (any, error) {
			return uc.Offer(c.Context(), loan.OfferInput{
				Borrower:     args[0],
				Amount:       amount,
				InterestRate: rate,
				Deadline:     deadline,
			})
		}),
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "principal")
	cmd.Flags().Float64Var(&rate, "rate", 0, "interest rate in percent")
	cmd.Flags().Uint64Var(&deadline, "deadline", 0, "last block height at which repayment is accepted")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func repayCmd(open opener) *cobra.Command {
	var amount float64
	cmd := &cobra.Command{
		Use:   "repay <borrower>",
		Short: "Repay a borrower's loan",
		Args:  cobra.ExactArgs(1),
		RunE: run(open, func(c *cobra.Command, args []string, uc *loan.Usecase) (any, error) {
			return uc.Repay(c.Context(), loan.RepayInput{Borrower: args[0], Amount: amount})
		}),
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount paid")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func getCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "get <borrower>",
		Short: "Show a borrower's active loan",
		Args:  cobra.ExactArgs(1),
		RunE: run(open, func(c *cobra.Command, args []string, uc *loan.Usecase) (any, error) {
			return uc.Get(c.Context(), args[0])
		}),
	}
}

func listCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active loans",
		Args:  cobra.NoArgs,
		RunE: run(open, func(c *cobra.Command, _ []string, uc *loan.Usecase) (any, error) {
			loans, err := uc.List(c.Context())
			return map[string]any{"loans": loans}, err
		}),
	}
}

func receiptsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "receipts <borrower>",
		Short: "List a borrower's repayment receipts",
		Args:  cobra.ExactArgs(1),
		RunE: run(open, func(c *cobra.Command, args []string, uc *loan.Usecase) (any, error) {
			rs, err := uc.Receipts(c.Context(), args[0])
			return map[string]any{"repayments": rs}, err
		}),
	}
}

func heightCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "height",
		Short: "Print the current block height",
		Args:  cobra.NoArgs,
		RunE: run(open, func(c *cobra.Command, _ []string, uc *loan.Usecase) (any, error) {
			h, err := uc.Height(c.Context())
			return map[string]uint64{"height": h}, err
		}),
	}
}

func mineCmd(open opener) *cobra.Command {
	var count uint64
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Advance the chain by --count blocks",
		Args:  cobra.NoArgs,
		RunE: run(open, func(c *cobra.Command, _ []string, uc *loan.Usecase) (any, error) {
			if count == 0 {
				return nil, errors.New("--count must be at least 1")
			}
			h, err := uc.Advance(c.Context(), count)
			return map[string]uint64{"height": h}, err
		}),
	}
	cmd.Flags().Uint64Var(&count, "count", 1, "number of blocks")
	return cmd
}
