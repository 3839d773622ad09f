package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fastn-ai/fastn-community-sub000/pkg/output"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear cached responses",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "topics\t%s\n", s.TTL.Topics)
		fmt.Fprintf(w, "replies\t%s\n", s.TTL.Replies)
		fmt.Fprintf(w, "categories\t%s\n", s.TTL.Categories)
		fmt.Fprintf(w, "tags\t%s\n", s.TTL.Tags)
		fmt.Fprintf(w, "users\t%s\n", s.TTL.Users)
		fmt.Fprintf(w, "analytics\t%s\n", s.TTL.Analytics)
		if app.snapshots != nil {
			fmt.Fprintf(w, "snapshots\tredis, kept %s\n", s.SnapshotTTL)
		} else {
			fmt.Fprintln(w, "snapshots\tin memory, this process only")
		}
		return w.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.svc.Reset()
		if app.snapshots == nil {
			output.PrintInfo("No Redis snapshot cache configured")
			return nil
		}
		n, err := app.snapshots.Clear(cmd.Context())
		if err != nil {
			return err
		}
		output.PrintSuccess("Removed %d snapshots", n)
		return nil
	},
}

// printStats writes every non-zero counter gathered during the command
func printStats(cmd *cobra.Command) {
	families, err := app.registry.Gather()
	if err != nil {
		output.PrintWarning("gathering stats: %v", err)
		return
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName() + "{" + strings.Join(labels, ",") + "}"

			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s\t%g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s\t%d calls, %.3fs total", name, h.GetSampleCount(), h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)

	w := tabwriter.NewWriter(cmd.ErrOrStderr(), 0, 0, 2, ' ', 0)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	w.Flush()
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
