package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var minerAddress string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Seal the pending transactions into a new block",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&minerAddress, "miner", "m", "miner1", "Account credited with the mining reward.")
}

func mineRun(cmd *cobra.Command, args []string) {
	body := struct {
		MinerAddress string `json:"miner_address"`
	}{
		MinerAddress: minerAddress,
	}

	if err := postJSON(url+"/v1/mine", body); err != nil {
		log.Fatal(err)
	}
}
