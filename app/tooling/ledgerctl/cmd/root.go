// Package cmd contains the ledgerctl commands.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	url      string
	adminURL string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node public API.")
	rootCmd.PersistentFlags().StringVarP(&adminURL, "admin-url", "a", "http://localhost:9080", "Url of the node private API.")
}

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operator tooling for a ledger node",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getJSON performs a GET against the node and prints the indented response.
func getJSON(endpoint string) error {
	resp, err := http.Get(endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printBody(resp)
}

// postJSON performs a POST against the node and prints the indented response.
func postJSON(endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := http.Post(endpoint, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printBody(resp)
}

func printBody(resp *http.Response) error {
	var v any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return err
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
