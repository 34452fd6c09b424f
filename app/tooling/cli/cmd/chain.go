package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the full chain held by the node.",
	Args:  cobra.NoArgs,
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) error {
	return call(cmd.OutOrStdout(), http.MethodGet, "/chain", nil)
}
