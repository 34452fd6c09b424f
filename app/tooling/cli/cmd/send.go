package cmd

import (
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node.",
	Args:  cobra.NoArgs,
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Who is sending.")
	sendCmd.Flags().StringVarP(&to, "to", "r", "", "Who is receiving.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	tx := database.NewTx(from, to, amount)
	return call(cmd.OutOrStdout(), http.MethodPost, "/transactions/new", tx)
}
