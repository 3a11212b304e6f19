package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pgd-harmeet/shipstation-triggers/internal/domain/estu"
)

var (
	normalizeInt    int
	normalizeFrac   int
	normalizeSigned bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <value>",
	Short: "Render a value as an implied-decimal field",
	Long: `Render a value as an ESTU implied-decimal field.

Examples:
  estu normalize 112.40 --int 4 --frac 3            # 0112400
  estu normalize 112.40 --int 4 --frac 3 --signed   # 0112400+`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("parse %q: %w", args[0], err)
		}
		out, err := estu.Normalize(v, normalizeInt, normalizeFrac, normalizeSigned)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	normalizeCmd.Flags().IntVar(&normalizeInt, "int", 7, "Integer digits")
	normalizeCmd.Flags().IntVar(&normalizeFrac, "frac", 2, "Fractional digits")
	normalizeCmd.Flags().BoolVar(&normalizeSigned, "signed", false, "Append a trailing sign")
	rootCmd.AddCommand(normalizeCmd)
}
