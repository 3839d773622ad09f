package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fastn-ai/fastn-community-sub000/pkg/api"
	"golang.org/x/term"
)

// Prompter reads answers line by line from in and writes labels to out
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// New creates a Prompter. Hidden input is only used when in is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

// Stdio prompts on the process terminal
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout)
}

func (p *Prompter) line() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// String prompts for a single line
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.out, label)
	input, err := p.line()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Password prompts for a secret without echoing it
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)

	if p.fd < 0 {
		return p.line()
	}

	bytepw, err := term.ReadPassword(p.fd)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(p.out)

	return string(bytepw), nil
}

// Confirm prompts for yes/no
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprint(p.out, label+" (y/n) ")
	input, err := p.line()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(input))
	return response == "y" || response == "yes", nil
}

// Select prompts for one of options and returns its index
func (p *Prompter) Select(label string, options []string) (int, error) {
	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(p.out, "Select option: ")
	input, err := p.line()
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(strings.TrimSpace(input), "%d", &selection); err != nil {
		return -1, err
	}

	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}

	return selection - 1, nil
}

// Multiline reads lines until an empty one or maxLines
func (p *Prompter) Multiline(label string, maxLines int) (string, error) {
	fmt.Fprintf(p.out, "%s (finish with an empty line):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := p.line()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

// Topic walks through the fields of a new topic. Categories are offered
// as a numbered list; tags are comma separated.
func (p *Prompter) Topic(categories []api.Category) (api.NewTopic, error) {
	var in api.NewTopic
	var err error

	if in.Title, err = p.String("Title: "); err != nil {
		return in, err
	}
	if in.Description, err = p.String("Short description: "); err != nil {
		return in, err
	}

	if len(categories) > 0 {
		names := make([]string, len(categories))
		for i, c := range categories {
			names[i] = c.Name
		}
		idx, err := p.Select("Category:", names)
		if err != nil {
			return in, err
		}
		in.CategoryID = categories[idx].ID
	} else if in.CategoryID, err = p.String("Category id: "); err != nil {
		return in, err
	}

	if in.Content, err = p.Multiline("Content", 500); err != nil {
		return in, err
	}

	tags, err := p.String("Tags (comma separated): ")
	if err != nil {
		return in, err
	}
	in.Tags = SplitTags(tags)

	return in, nil
}

// SplitTags turns "a, b,,c" into [a b c]
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
