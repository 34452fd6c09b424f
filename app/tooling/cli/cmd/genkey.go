package cmd

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var keyFile string

var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a miner key and print the node id it produces.",
	Args:  cobra.NoArgs,
	RunE:  genkeyRun,
}

func init() {
	rootCmd.AddCommand(genkeyCmd)
	genkeyCmd.Flags().StringVarP(&keyFile, "file", "k", "miner.ecdsa", "Path to write the private key to.")
}

func genkeyRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	if err := crypto.SaveECDSA(keyFile, privateKey); err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), database.PublicKeyToNodeID(privateKey.PublicKey))
	return err
}
