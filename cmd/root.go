package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Environment fallbacks for --user and --name, also read from .env.
const (
	envUser     = "TASKBOARD_USER"
	envUserName = "TASKBOARD_USER_NAME"
)

var (
	configPath string
	dataDir    string
	userID     string
	userName   string
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Task board – publish, claim and review tasks for points",
	Long: `taskboard tracks small tasks through publish, claim, submit and review,
and keeps a points ledger for everyone whose work was approved.
All data is stored as human-readable JSON files in ~/.taskboard/data.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.taskboard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Caller user id (env "+envUser+")")
	rootCmd.PersistentFlags().StringVar(&userName, "name", "", "Caller display name (env "+envUserName+")")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(execCmd)
}
