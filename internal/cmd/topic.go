package cmd

import (
	"fmt"
	"strings"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/output"
	"github.com/fastn-ai/fastn-community-sub000/pkg/prompter"
	"github.com/fastn-ai/fastn-community-sub000/pkg/service"
	"github.com/spf13/cobra"
)

var (
	topicStatus      string
	topicTitle       string
	topicDescription string
	topicCategory    string
	topicContent     string
	topicTags        string
	topicInteractive bool
	topicYes         bool
)

var topicCmd = &cobra.Command{
	Use:     "topic",
	Aliases: []string{"topics"},
	Short:   "Browse and manage topics",
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics",
	Long:  "List topics, optionally only those with a moderation status (pending, approved, rejected)",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := api.TopicStatus(topicStatus)
		if status != "" && !status.Valid() {
			return fmt.Errorf("unknown status %q (use pending, approved or rejected)", topicStatus)
		}

		got := app.svc.Topics.List(cmd.Context(), service.TopicFilter{Status: status, ForceRefresh: refresh})
		return printer(cmd).Topics(got.Items, string(got.Source))
	},
}

var topicMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		got := app.svc.Topics.Mine(cmd.Context(), refresh)
		return printer(cmd).Topics(got.Items, string(got.Source))
	},
}

var topicByUserCmd = &cobra.Command{
	Use:   "by-user <user-id>",
	Short: "List the topics of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		got := app.svc.Topics.ListByUser(cmd.Context(), args[0], refresh)
		return printer(cmd).Topics(got.Items, string(got.Source))
	},
}

var topicGetCmd = &cobra.Command{
	Use:   "get <topic-id>",
	Short: "Show a topic and its replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic, src, err := app.svc.Topics.Get(ctx, args[0], refresh)
		if err != nil {
			return err
		}

		p := printer(cmd)
		if err := p.Topic(topic, string(src)); err != nil {
			return err
		}
		if output.GetOutputFormat() == output.FormatJSON {
			return nil
		}

		replies := app.svc.Replies.List(ctx, topic.ID, refresh)
		fmt.Fprintln(cmd.OutOrStdout())
		return p.Replies(replies.Items, string(replies.Source))
	},
}

var topicCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new topic",
	Long: `Start a new topic. New topics are pending until a moderator approves them.
Without --title the fields are asked for interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		input := api.NewTopic{
			Title:       topicTitle,
			Description: topicDescription,
			CategoryID:  topicCategory,
			Content:     topicContent,
			Tags:        prompter.SplitTags(topicTags),
		}

		if topicInteractive || topicTitle == "" {
			cats := app.svc.Categories.List(ctx, refresh)
			var err error
			input, err = prompter.New(cmd.InOrStdin(), cmd.OutOrStdout()).Topic(cats.Items)
			if err != nil {
				return err
			}
		}

		res, err := app.svc.Topics.Create(ctx, input)
		if err != nil {
			return err
		}

		if output.GetOutputFormat() == output.FormatJSON {
			return printer(cmd).JSON(res)
		}

		output.PrintSuccess("Topic created: %s (%s)", res.Topic.Title, res.Topic.ID)
		output.PrintInfo("It will appear publicly once a moderator approves it.")
		if len(res.UnresolvedTags) > 0 {
			output.PrintWarning("unknown tags were not attached: %s", strings.Join(res.UnresolvedTags, ", "))
		}
		if len(res.FailedTags) > 0 {
			output.PrintWarning("could not attach tags: %s", strings.Join(res.FailedTags, ", "))
		}
		return nil
	},
}

var topicStatusCmd = &cobra.Command{
	Use:       "status <topic-id> <pending|approved|rejected>",
	Short:     "Change the moderation status of a topic",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"pending", "approved", "rejected"},
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _, err := app.svc.Topics.UpdateStatus(cmd.Context(), args[0], api.TopicStatus(args[1]))
		if err != nil {
			return err
		}
		output.PrintSuccess("Topic %s is now %s", topic.ID, topic.Status)
		return nil
	},
}

var topicDeleteCmd = &cobra.Command{
	Use:   "delete <topic-id>",
	Short: "Delete a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !topicYes {
			ok, err := prompter.New(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm("Delete topic " + args[0] + "?")
			if err != nil {
				return err
			}
			if !ok {
				output.PrintInfo("Cancelled.")
				return nil
			}
		}

		if _, err := app.svc.Topics.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		output.PrintSuccess("Topic %s deleted", args[0])
		return nil
	},
}

func init() {
	topicListCmd.Flags().StringVar(&topicStatus, "status", "", "Only topics with this status")

	topicCreateCmd.Flags().StringVar(&topicTitle, "title", "", "Topic title")
	topicCreateCmd.Flags().StringVar(&topicDescription, "description", "", "Short description")
	topicCreateCmd.Flags().StringVar(&topicCategory, "category", "", "Category id")
	topicCreateCmd.Flags().StringVar(&topicContent, "content", "", "Topic body")
	topicCreateCmd.Flags().StringVar(&topicTags, "tags", "", "Comma separated tag names")
	topicCreateCmd.Flags().BoolVarP(&topicInteractive, "interactive", "i", false, "Prompt for every field")

	topicDeleteCmd.Flags().BoolVarP(&topicYes, "yes", "y", false, "Skip confirmation")

	topicCmd.AddCommand(topicListCmd)
	topicCmd.AddCommand(topicMineCmd)
	topicCmd.AddCommand(topicByUserCmd)
	topicCmd.AddCommand(topicGetCmd)
	topicCmd.AddCommand(topicCreateCmd)
	topicCmd.AddCommand(topicStatusCmd)
	topicCmd.AddCommand(topicDeleteCmd)
}
