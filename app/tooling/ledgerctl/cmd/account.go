package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Work with account addresses",
}

var accountGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new account address",
	Run:   accountGenerateRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountGenerateCmd)
}

func accountGenerateRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)
	fmt.Println(address.Hex())
}
