package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var confirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the chain and all transactions",
	Run:   resetRun,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&confirm, "confirm", false, "Required acknowledgement that all data will be lost.")
}

func resetRun(cmd *cobra.Command, args []string) {
	if !confirm {
		log.Fatal("refusing to reset without --confirm")
	}

	body := struct {
		Confirm bool `json:"confirm"`
	}{
		Confirm: true,
	}

	if err := postJSON(adminURL+"/v1/node/reset", body); err != nil {
		log.Fatal(err)
	}
}
