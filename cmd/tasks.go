package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/taskboard/internal/bot"
)

var createCmd = &cobra.Command{
	Use:   "create <content...>",
	Short: "Publish a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdCreate, strings.Join(args, " "))
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim <task-id>",
	Short: "Claim an open task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdClaim, args[0])
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <task-id>",
	Short: "Submit a claimed task for review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdSubmit, args[0])
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <task-id>",
	Short: "Approve a submitted task (admins only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(bot.CmdReview, args[0])
	},
}

// execCmd forwards a raw command name, as a chat bridge would send it.
var execCmd = &cobra.Command{
	Use:   "exec <command> [args...]",
	Short: "Run a board command by name, e.g. exec claim-task 0715001",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(args[0], strings.Join(args[1:], " "))
	},
}
