package cmd

import (
	"strings"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/output"
	"github.com/spf13/cobra"
)

var replyParent string

var replyCmd = &cobra.Command{
	Use:     "reply",
	Aliases: []string{"replies"},
	Short:   "Read and write replies",
}

var replyListCmd = &cobra.Command{
	Use:   "list <topic-id>",
	Short: "List the replies of a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		got := app.svc.Replies.List(cmd.Context(), args[0], refresh)
		return printer(cmd).Replies(got.Items, string(got.Source))
	},
}

var replyCreateCmd = &cobra.Command{
	Use:   "create <topic-id> <content...>",
	Short: "Reply to a topic",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, _, err := app.svc.Replies.Create(cmd.Context(), api.NewReply{
			TopicID:       args[0],
			Content:       strings.Join(args[1:], " "),
			ParentReplyID: replyParent,
		})
		if err != nil {
			return err
		}
		if output.GetOutputFormat() == output.FormatJSON {
			return printer(cmd).JSON(reply)
		}
		output.PrintSuccess("Reply posted (%s)", reply.ID)
		return nil
	},
}

var replyUpdateCmd = &cobra.Command{
	Use:   "update <reply-id> <topic-id> <content...>",
	Short: "Edit a reply",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, _, err := app.svc.Replies.Update(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		output.PrintSuccess("Reply %s updated", reply.ID)
		return nil
	},
}

var replyDeleteCmd = &cobra.Command{
	Use:   "delete <reply-id> <topic-id>",
	Short: "Delete a reply",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.svc.Replies.Delete(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		output.PrintSuccess("Reply %s deleted", args[0])
		return nil
	},
}

func init() {
	replyCreateCmd.Flags().StringVar(&replyParent, "parent", "", "Reply id this answers")

	replyCmd.AddCommand(replyListCmd)
	replyCmd.AddCommand(replyCreateCmd)
	replyCmd.AddCommand(replyUpdateCmd)
	replyCmd.AddCommand(replyDeleteCmd)
}
