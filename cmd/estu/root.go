package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "estu",
	Short: "Render Eagle ESTU order sheets offline",
	Long: `estu renders a ShipStation shipment as an Eagle ESTU order sheet
without touching the queue or the sheet store.`,
	SilenceUsage: true,
}
