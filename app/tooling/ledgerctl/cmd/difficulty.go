package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var newDifficulty int

var difficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Print the current difficulty settings",
	Run:   difficultyRun,
}

var difficultySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the mining difficulty",
	Run:   difficultySetRun,
}

var retargetCmd = &cobra.Command{
	Use:   "retarget",
	Short: "Run the difficulty retarget evaluation now",
	Run:   retargetRun,
}

func init() {
	rootCmd.AddCommand(difficultyCmd)
	difficultyCmd.AddCommand(difficultySetCmd)
	rootCmd.AddCommand(retargetCmd)

	difficultySetCmd.Flags().IntVarP(&newDifficulty, "value", "v", 4, "Difficulty in the range [1,10].")
}

func difficultyRun(cmd *cobra.Command, args []string) {
	if err := getJSON(url + "/v1/difficulty"); err != nil {
		log.Fatal(err)
	}
}

func difficultySetRun(cmd *cobra.Command, args []string) {
	body := struct {
		Difficulty int `json:"difficulty"`
	}{
		Difficulty: newDifficulty,
	}

	if err := postJSON(adminURL+"/v1/node/difficulty", body); err != nil {
		log.Fatal(err)
	}
}

func retargetRun(cmd *cobra.Command, args []string) {
	if err := postJSON(adminURL+"/v1/node/difficulty/retarget", struct{}{}); err != nil {
		log.Fatal(err)
	}
}
