package cmd

import (
	"github.com/spf13/cobra"
)

var leaderboardLimit int

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Topic categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		got := app.svc.Categories.List(cmd.Context(), refresh)
		return printer(cmd).Categories(got.Items, string(got.Source))
	},
}

var tagCmd = &cobra.Command{
	Use:     "tag",
	Aliases: []string{"tags"},
	Short:   "Topic tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		got := app.svc.Tags.List(cmd.Context(), refresh)
		return printer(cmd).Tags(got.Items, string(got.Source))
	},
}

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Community members",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		got := app.svc.Users.List(cmd.Context(), refresh)
		return printer(cmd).Users(got.Items, string(got.Source))
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, src, err := app.svc.Users.Get(cmd.Context(), args[0], refresh)
		if err != nil {
			return err
		}
		return printer(cmd).User(u, string(src))
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Top members by reputation",
	RunE: func(cmd *cobra.Command, args []string) error {
		board, src := app.svc.Users.Leaderboard(cmd.Context(), leaderboardLimit, refresh)
		return printer(cmd).Leaderboard(board, string(src))
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Moderation commands",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show moderation counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, src := app.svc.Analytics.Stats(cmd.Context(), refresh)
		return printer(cmd).Stats(stats, string(src))
	},
}

var adminPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List topics waiting for approval",
	RunE: func(cmd *cobra.Command, args []string) error {
		topicStatus = "pending"
		return topicListCmd.RunE(cmd, args)
	},
}

func init() {
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "Number of entries (0 for all)")

	categoryCmd.AddCommand(categoryListCmd)
	tagCmd.AddCommand(tagListCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminPendingCmd)
}
