// This program drives a ledger node from the command line.
package main

import "github.com/ardanlabs/powchain/app/tooling/cli/cmd"

func main() {
	cmd.Execute()
}
