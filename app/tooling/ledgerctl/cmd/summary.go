package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print ledger wide totals and the recent blocks",
	Run:   summaryRun,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print mining performance statistics",
	Run:   statsRun,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(statsCmd)
}

func summaryRun(cmd *cobra.Command, args []string) {
	if err := getJSON(url + "/v1/summary"); err != nil {
		log.Fatal(err)
	}
}

func statsRun(cmd *cobra.Command, args []string) {
	if err := getJSON(url + "/v1/mining/stats"); err != nil {
		log.Fatal(err)
	}
}
