package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/opabravo/forescout-tools/internal/diff"
	"github.com/opabravo/forescout-tools/internal/workflow"
)

// inputLine is the result of one pending read
type inputLine struct {
	text string
	err  error
}

// Terminal is the operator console. It implements workflow.Console,
// workflow.DiffViewer and the config prompters.
type Terminal struct {
	in      *bufio.Reader
	inFile  *os.File // set when input is a real terminal
	out     io.Writer
	width   int
	pending chan inputLine
}

// NewTerminal creates a console on stdin and stdout
func NewTerminal() *Terminal {
	t := NewTerminalIO(os.Stdin, os.Stdout)
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		t.inFile = os.Stdin
	}
	t.width = GetTerminalWidth()
	return t
}

// NewTerminalIO creates a console on arbitrary streams. Secret prompts
// read plain lines.
func NewTerminalIO(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		width: MinTerminalWidth,
	}
}

// SetWidth sets the render width used for boxes and diffs
func (t *Terminal) SetWidth(width int) *Terminal {
	t.width = width
	return t
}

// Width returns the render width
func (t *Terminal) Width() int {
	return t.width
}

// Interactive reports whether both ends of the console are terminals
func (t *Terminal) Interactive() bool {
	if t.inFile == nil {
		return false
	}
	if f, ok := t.out.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Println writes a line of already styled text
func (t *Terminal) Println(text string) {
	fmt.Fprintln(t.out, text)
}

// Prompt shows "label -> " and returns one line without its line ending
func (t *Terminal) Prompt(ctx context.Context, label string) (string, error) {
	t.showPrompt(label)
	return t.read(ctx, func() (string, error) {
		return t.in.ReadString('\n')
	})
}

// PromptSecret is Prompt without echo when input is a terminal
func (t *Terminal) PromptSecret(ctx context.Context, label string) (string, error) {
	if t.inFile == nil {
		return t.Prompt(ctx, label)
	}
	t.showPrompt(label)
	line, err := t.read(ctx, func() (string, error) {
		b, err := term.ReadPassword(int(t.inFile.Fd()))
		return string(b), err
	})
	fmt.Fprintln(t.out)
	return line, err
}

// Confirm asks a yes/no question
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := t.Prompt(ctx, question+" (y/N)")
	if err != nil {
		return false, err
	}
	return workflow.IsAffirmative(answer), nil
}

func (t *Terminal) showPrompt(label string) {
	fmt.Fprint(t.out, PromptStyle.Render(label+" ->")+" ")
}

// read waits for the pending read, starting one if none is running. A read
// abandoned by a cancelled ctx is handed to the next caller.
func (t *Terminal) read(ctx context.Context, readFn func() (string, error)) (string, error) {
	if t.pending == nil {
		ch := make(chan inputLine, 1)
		t.pending = ch
		go func() {
			text, err := readFn()
			ch <- inputLine{text: text, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-t.pending:
		t.pending = nil
		if line.err != nil && (line.err != io.EOF || line.text == "") {
			return "", line.err
		}
		return strings.TrimRight(line.text, "\r\n"), nil
	}
}

// Show writes a message styled for its level
func (t *Terminal) Show(level workflow.Level, text string) {
	var style = InfoStyle
	marker := InfoMarker
	switch level {
	case workflow.LevelSuccess:
		style, marker = SuccessStyle, SuccessMarker
	case workflow.LevelWarning:
		style, marker = WarningStyle, WarningMarker
	case workflow.LevelError:
		style, marker = ErrorStyle, FailureMarker
	}

	lines := strings.Split(text, "\n")
	fmt.Fprintln(t.out, style.Render(marker+" "+lines[0]))
	for _, line := range lines[1:] {
		fmt.Fprintln(t.out, style.Render("  "+line))
	}
}

// Warn shows a warning message
func (t *Terminal) Warn(text string) {
	t.Show(workflow.LevelWarning, text)
}

// ShowDiff renders the differences between a backup and an edited file
func (t *Terminal) ShowDiff(r *diff.Result) {
	fmt.Fprintln(t.out, RenderDiff(r, t.width))
}
