package dialog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Console renders dialogs on a terminal. Answers to questions are written
// back into the step store from the reader goroutine, which is exactly the
// cross-worker signaling path the checker polls on.
type Console struct {
	store *Store
	in    io.Reader
	out   io.Writer
	tty   bool

	autoAccept bool

	mu       sync.Mutex
	lastPct  int
	progress bool
}

// NewConsole creates a console dialog over stdin/stdout.
func NewConsole(store *Store) *Console {
	c := NewConsoleWithIO(store, os.Stdin, os.Stdout)
	c.tty = term.IsTerminal(int(os.Stdin.Fd()))
	return c
}

// NewConsoleWithIO creates a console dialog with custom input/output
// (for testing).
func NewConsoleWithIO(store *Store, in io.Reader, out io.Writer) *Console {
	return &Console{store: store, in: in, out: out, lastPct: -1}
}

// AutoAccept makes every question answer itself with yes. Used for
// non-interactive runs (--yes) and when stdin is not a terminal.
func (c *Console) AutoAccept() {
	c.autoAccept = true
}

// AskQuestion prints the prompt and spawns a reader that resolves the
// step store: yes moves the step to StepDownloading, no resets it to
// StepNone. The step is raised to StepUpdateQuestion here as well so the
// question state holds even when the caller has not raised it yet.
func (c *Console) AskQuestion(message string) {
	c.store.SetStep(StepUpdateQuestion)

	if c.autoAccept {
		fmt.Fprintf(c.out, "%s [y/n] y\n", message)
		c.store.SetStep(StepDownloading)
		return
	}

	fmt.Fprintf(c.out, "%s [y/n] ", message)
	go func() {
		scanner := bufio.NewScanner(c.in)
		if !scanner.Scan() {
			c.store.SetStep(StepNone)
			return
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			c.store.SetStep(StepDownloading)
		default:
			c.store.SetStep(StepNone)
		}
	}()
}

// InitProgress opens a progress line.
func (c *Console) InitProgress(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, title)
	c.progress = true
	c.lastPct = -1
}

// SetProgress redraws the progress line. Repeated pushes of the same
// percentage are dropped so a fast reporter does not spam the terminal.
func (c *Console) SetProgress(percent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if percent == c.lastPct {
		return
	}
	c.lastPct = percent
	if c.tty {
		fmt.Fprintf(c.out, "\r  %3d%%", percent)
		return
	}
	fmt.Fprintf(c.out, "  %3d%%\n", percent)
}

// Close ends the current dialog.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.progress && c.tty {
		fmt.Fprintln(c.out)
	}
	c.progress = false
	c.lastPct = -1
}

// ShowError renders the generic error dialog.
func (c *Console) ShowError(code ErrorCode, err error) {
	fmt.Fprintf(c.out, "error 0x%08X: %v\n", uint32(code), err)
}
