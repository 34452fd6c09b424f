package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Work with the peers known to the node.",
}

var nodesRegisterCmd = &cobra.Command{
	Use:   "register <url>...",
	Short: "Register peer nodes by url.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  nodesRegisterRun,
}

var nodesResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Replace the chain with the longest valid chain held by the peers.",
	Args:  cobra.NoArgs,
	RunE:  nodesResolveRun,
}

var nodesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the hosts of the known peers.",
	Args:  cobra.NoArgs,
	RunE:  nodesListRun,
}

func init() {
	nodesCmd.AddCommand(nodesRegisterCmd, nodesResolveCmd, nodesListCmd)
	rootCmd.AddCommand(nodesCmd)
}

func nodesRegisterRun(cmd *cobra.Command, args []string) error {
	body := struct {
		Nodes []string `json:"nodes"`
	}{
		Nodes: args,
	}

	return call(cmd.OutOrStdout(), http.MethodPost, "/nodes/register", body)
}

func nodesResolveRun(cmd *cobra.Command, args []string) error {
	return call(cmd.OutOrStdout(), http.MethodGet, "/nodes/resolve", nil)
}

func nodesListRun(cmd *cobra.Command, args []string) error {
	return call(cmd.OutOrStdout(), http.MethodGet, "/nodes/list", nil)
}
