package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the full chain",
	Run:   chainRun,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit the chain for hash and linkage integrity",
	Run:   validateRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(validateCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	if err := getJSON(url + "/v1/chain"); err != nil {
		log.Fatal(err)
	}
}

func validateRun(cmd *cobra.Command, args []string) {
	if err := getJSON(url + "/v1/chain/validate"); err != nil {
		log.Fatal(err)
	}
}
