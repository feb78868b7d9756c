package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/taskboard/internal/bot"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List open tasks you published or claimed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdMyTasks, "")
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every task grouped by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdAllTasks, "")
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show your points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdMyPoints, "")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top point earners",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdLeaderboard, "")
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the board command reference",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdHelp, "")
	},
}
