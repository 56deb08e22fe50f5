package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/styles"
)

// maxAttempts bounds re-prompting after invalid answers.
const maxAttempts = 3

var (
	// ErrNotInteractive is returned when a prompt is needed but stdin or
	// stderr is not a terminal.
	ErrNotInteractive = errors.New("input required but not running in an interactive terminal")

	// ErrNoAnswer is returned when the user gives no valid answer.
	ErrNoAnswer = errors.New("no valid answer given")
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// Default prompts on stderr, keeping stdout for command output.
func Default() *Prompter {
	return New(os.Stdin, os.Stderr, styles.IsTerminal(os.Stdin) && styles.IsTerminal(os.Stderr))
}

func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Confirm asks a yes/no question. An empty answer selects defaultYes.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	if !p.interactive {
		return false, ErrNotInteractive
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	for range maxAttempts {
		answer, err := p.ask(fmt.Sprintf("%s %s ", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.printf("Please answer y or n.\n")
	}
	return false, ErrNoAnswer
}

// Select shows numbered options and returns the chosen index. The answer
// may be a number or text, which is fuzzy-matched against the options.
// An empty answer selects defaultIdx.
func (p *Prompter) Select(question string, options []string, defaultIdx int) (int, error) {
	if !p.interactive {
		return -1, ErrNotInteractive
	}
	if len(options) == 0 {
		return -1, ErrNoAnswer
	}

	p.printf("%s\n", question)
	for i, opt := range options {
		marker := " "
		if i == defaultIdx {
			marker = styles.Render(&styles.Current, "*")
		}
		p.printf(" %s %d) %s\n", marker, i+1, opt)
	}

	for range maxAttempts {
		answer, err := p.ask("> ")
		if err != nil {
			return -1, err
		}
		if idx, ok := matchOption(answer, options, defaultIdx); ok {
			return idx, nil
		}
		p.printf("Enter a number between 1 and %d.\n", len(options))
	}
	return -1, ErrNoAnswer
}

// Input asks for free text. An empty answer returns defaultValue.
func (p *Prompter) Input(question, defaultValue string) (string, error) {
	if !p.interactive {
		return "", ErrNotInteractive
	}

	label := question + ": "
	if defaultValue != "" {
		label = fmt.Sprintf("%s [%s]: ", question, defaultValue)
	}
	answer, err := p.ask(label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func matchOption(answer string, options []string, defaultIdx int) (int, bool) {
	if answer == "" {
		return defaultIdx, defaultIdx >= 0 && defaultIdx < len(options)
	}
	if n, err := strconv.Atoi(answer); err == nil {
		return n - 1, n >= 1 && n <= len(options)
	}
	matches := fuzzy.Find(answer, options)
	if len(matches) == 0 {
		return -1, false
	}
	return matches[0].Index, true
}

func (p *Prompter) ask(label string) (string, error) {
	p.printf("%s", label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "failed to read user input")
		}
		if line == "" {
			return "", ErrNoAnswer
		}
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
