package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the pending transactions into a block.",
	Args:  cobra.NoArgs,
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	return call(cmd.OutOrStdout(), http.MethodGet, "/mine", nil)
}
