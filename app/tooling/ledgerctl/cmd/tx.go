package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   string
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Work with transactions",
}

var txSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a new pending transaction",
	Run:   txSendRun,
}

var txPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the pending transaction pool",
	Run:   txPendingRun,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txSendCmd)
	txCmd.AddCommand(txPendingCmd)

	txSendCmd.Flags().StringVarP(&sender, "from", "f", "", "Account sending the amount.")
	txSendCmd.Flags().StringVarP(&receiver, "to", "t", "", "Account receiving the amount.")
	txSendCmd.Flags().StringVarP(&amount, "value", "v", "", "Amount to send, like 25.50.")
}

func txSendRun(cmd *cobra.Command, args []string) {
	body := struct {
		Sender   string `json:"sender"`
		Receiver string `json:"receiver"`
		Amount   string `json:"amount"`
	}{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	}

	if err := postJSON(url+"/v1/tx", body); err != nil {
		log.Fatal(err)
	}
}

func txPendingRun(cmd *cobra.Command, args []string) {
	if err := getJSON(url + "/v1/tx/pending"); err != nil {
		log.Fatal(err)
	}
}
