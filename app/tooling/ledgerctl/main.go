// This program performs operator tasks against a running ledger node.
package main

import (
	"github.com/chainforge/ledger/app/tooling/ledgerctl/cmd"
)

func main() {
	cmd.Execute()
}
