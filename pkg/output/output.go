package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"github.com/fastn-ai/fastn-community-sub000/pkg/config"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	return ParseFormat(config.GetString("output.format"))
}

// ParseFormat maps a flag or config value to a format, defaulting to text
func ParseFormat(format string) OutputFormat {
	switch format {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Printer renders records in one format
type Printer struct {
	w      io.Writer
	format OutputFormat
}

// New creates a Printer writing to w
func New(w io.Writer, format OutputFormat) *Printer {
	if w == nil {
		w = color.Output
	}
	return &Printer{w: w, format: format}
}

// Default writes to the terminal in the configured format
func Default() *Printer {
	return New(color.Output, GetOutputFormat())
}

// SampleNotice is printed above records that did not come from the backend
func (p *Printer) SampleNotice(source string) {
	if p.format == FormatJSON || source == "" || source == "network" {
		return
	}
	msg := "Showing sample data (backend unavailable)"
	if source == "snapshot" {
		msg = "Showing cached data (backend unavailable)"
	}
	color.New(color.FgYellow).Fprintln(p.w, msg)
}

// sourced wraps list output in JSON mode so consumers can see degradation
type sourced struct {
	Source string      `json:"source"`
	Items  interface{} `json:"items"`
}

func (p *Printer) JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}

// Topics renders a topic listing
func (p *Printer) Topics(topics []api.Topic, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: topics})
	}
	p.SampleNotice(source)
	if len(topics) == 0 {
		fmt.Fprintln(p.w, "No topics found.")
		return nil
	}

	if p.format == FormatTable {
		rows := make([][]string, 0, len(topics))
		for _, t := range topics {
			rows = append(rows, []string{
				t.ID, truncate(t.Title, 48), string(t.Status), t.AuthorUsername,
				t.CategoryName, strconv.Itoa(t.ReplyCount), strconv.Itoa(t.ViewCount),
			})
		}
		p.table([]string{"ID", "TITLE", "STATUS", "AUTHOR", "CATEGORY", "REPLIES", "VIEWS"}, rows)
		return nil
	}

	bold := color.New(color.Bold)
	for _, t := range topics {
		bold.Fprintf(p.w, "[%s] %s", t.ID, t.Title)
		fmt.Fprintf(p.w, " %s\n", statusLabel(t.Status))
		fmt.Fprintf(p.w, "    by %s in %s, %d replies, %d views, %d likes\n",
			t.AuthorUsername, orDash(t.CategoryName), t.ReplyCount, t.ViewCount, t.LikeCount)
		if len(t.Tags) > 0 {
			fmt.Fprintf(p.w, "    tags: %s\n", strings.Join(t.Tags, ", "))
		}
	}
	return nil
}

// Topic renders one topic in full
func (p *Printer) Topic(t api.Topic, source string) error {
	if p.format == FormatJSON {
		return p.JSON(t)
	}
	p.SampleNotice(source)

	color.New(color.Bold).Fprintln(p.w, t.Title)
	p.fields([][2]string{
		{"ID", t.ID},
		{"Status", string(t.Status)},
		{"Author", t.AuthorUsername},
		{"Category", orDash(t.CategoryName)},
		{"Tags", orDash(strings.Join(t.Tags, ", "))},
		{"Created", t.CreatedAt},
		{"Replies", strconv.Itoa(t.ReplyCount)},
		{"Views", strconv.Itoa(t.ViewCount)},
		{"Likes", strconv.Itoa(t.LikeCount)},
	})
	if t.Description != "" {
		fmt.Fprintf(p.w, "\n%s\n", t.Description)
	}
	if t.Content != "" {
		fmt.Fprintf(p.w, "\n%s\n", t.Content)
	}
	return nil
}

// Replies renders a reply listing
func (p *Printer) Replies(replies []api.Reply, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: replies})
	}
	p.SampleNotice(source)
	if len(replies) == 0 {
		fmt.Fprintln(p.w, "No replies yet.")
		return nil
	}

	if p.format == FormatTable {
		rows := make([][]string, 0, len(replies))
		for _, r := range replies {
			rows = append(rows, []string{r.ID, r.AuthorUsername, truncate(r.Content, 60), strconv.Itoa(r.LikeCount), r.CreatedAt})
		}
		p.table([]string{"ID", "AUTHOR", "CONTENT", "LIKES", "CREATED"}, rows)
		return nil
	}

	bold := color.New(color.Bold)
	for _, r := range replies {
		bold.Fprintf(p.w, "%s", r.AuthorUsername)
		fmt.Fprintf(p.w, " (%s, %s)", r.ID, r.CreatedAt)
		if r.IsAccepted {
			color.New(color.FgGreen).Fprint(p.w, " accepted")
		}
		fmt.Fprintf(p.w, "\n    %s\n", r.Content)
	}
	return nil
}

func (p *Printer) Categories(cats []api.Category, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: cats})
	}
	p.SampleNotice(source)
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c.ID, c.Name, strconv.Itoa(c.TopicsCount), c.Color, truncate(c.Description, 50)})
	}
	p.table([]string{"ID", "NAME", "TOPICS", "COLOR", "DESCRIPTION"}, rows)
	return nil
}

func (p *Printer) Tags(tags []api.Tag, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: tags})
	}
	p.SampleNotice(source)
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{t.ID, t.Name, strconv.Itoa(t.TopicsCount), t.Color})
	}
	p.table([]string{"ID", "NAME", "TOPICS", "COLOR"}, rows)
	return nil
}

func (p *Printer) Users(users []api.User, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: users})
	}
	p.SampleNotice(source)
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID, u.Username, strconv.Itoa(u.ReputationScore), strconv.Itoa(u.TopicsCount),
			strconv.Itoa(u.RepliesCount), strconv.FormatBool(u.IsVerified),
		})
	}
	p.table([]string{"ID", "USERNAME", "REPUTATION", "TOPICS", "REPLIES", "VERIFIED"}, rows)
	return nil
}

// User renders one profile
func (p *Printer) User(u api.User, source string) error {
	if p.format == FormatJSON {
		return p.JSON(u)
	}
	p.SampleNotice(source)
	color.New(color.Bold).Fprintln(p.w, u.Username)
	p.fields([][2]string{
		{"ID", u.ID},
		{"Email", orDash(u.Email)},
		{"Bio", orDash(u.Bio)},
		{"Location", orDash(u.Location)},
		{"Website", orDash(u.Website)},
		{"Reputation", strconv.Itoa(u.ReputationScore)},
		{"Topics", strconv.Itoa(u.TopicsCount)},
		{"Replies", strconv.Itoa(u.RepliesCount)},
		{"Likes received", strconv.Itoa(u.LikesReceived)},
		{"Joined", u.CreatedAt},
	})
	return nil
}

func (p *Printer) Leaderboard(entries []api.LeaderboardEntry, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: entries})
	}
	p.SampleNotice(source)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			"#" + strconv.Itoa(e.Rank), e.User.Username,
			strconv.Itoa(e.User.ReputationScore), strconv.Itoa(e.User.LikesReceived),
		})
	}
	p.table([]string{"RANK", "USER", "REPUTATION", "LIKES"}, rows)
	return nil
}

func (p *Printer) Stats(s api.AdminStats, source string) error {
	if p.format == FormatJSON {
		return p.JSON(sourced{Source: source, Items: s})
	}
	p.SampleNotice(source)
	p.fields([][2]string{
		{"Topics", strconv.Itoa(s.TotalTopics)},
		{"  pending", strconv.Itoa(s.PendingTopics)},
		{"  approved", strconv.Itoa(s.ApprovedTopics)},
		{"  rejected", strconv.Itoa(s.RejectedTopics)},
		{"Users", strconv.Itoa(s.TotalUsers)},
		{"Replies", strconv.Itoa(s.TotalReplies)},
		{"Likes", strconv.Itoa(s.TotalLikes)},
		{"Views", strconv.Itoa(s.TotalViews)},
	})
	return nil
}

func (p *Printer) fields(pairs [][2]string) {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)
	for _, kv := range pairs {
		bold.Fprint(w, kv[0]+":")
		fmt.Fprintf(w, "\t%s\n", kv[1])
	}
	w.Flush()
}

func (p *Printer) table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

func statusLabel(s api.TopicStatus) string {
	switch s {
	case api.StatusPending:
		return color.YellowString("(pending)")
	case api.StatusRejected:
		return color.RedString("(rejected)")
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Printf(msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(color.Error, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Printf(msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Printf("Warning: "+msg+"\n", args...)
}
