package cmd

import (
	"fmt"

	"github.com/fastn-ai/fastn-community-sub000/pkg/client"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "forumctl v%s\n", client.Version)
	},
}
