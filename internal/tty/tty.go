// Package tty provides terminal I/O for the interactive REPL.
package tty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console is a line-editing terminal session for the REPL[^1]. It puts the
// controlling terminal into raw mode and drives reads and writes through
// [term.Terminal], which supplies history and in-line editing over the raw
// byte stream.
//
// [1]: See: tty(4), termios(4).
type Console struct {
	in    *os.File
	term  *term.Terminal
	fd    int
	state *term.State
}

// ErrNoTTY is returned if standard input is not a terminal. In this case,
// line editing is not supported and callers should fall back to a plain
// reader.
var ErrNoTTY error = errors.New("console: not a TTY")

// rw adapts separate input and output streams to the io.ReadWriter that
// term.NewTerminal expects.
type rw struct {
	io.Reader
	io.Writer
}

// NewConsole creates a Console reading from sin and writing prompts and
// output to sout. If sin is not a terminal, ErrNoTTY is returned. Callers
// are responsible for calling [Console.Restore] to return the terminal to
// its initial state.
func NewConsole(sin, sout *os.File, prompt string) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := &Console{
		fd:    fd,
		in:    sin,
		term:  term.NewTerminal(rw{sin, sout}, prompt),
		state: saved,
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		_ = term.Restore(fd, saved)
		return nil, err
	}

	return cons, nil
}

// SetPrompt changes the prompt printed before each line.
func (c *Console) SetPrompt(prompt string) {
	c.term.SetPrompt(prompt)
}

// ReadLine reads one line of input, with editing and history handled by
// term.Terminal. It returns io.EOF when the stream is closed or the user
// sends Ctrl-D on an empty line.
func (c *Console) ReadLine() (string, error) {
	return c.term.ReadLine()
}

// Writer returns an io.Writer that writes to the console, interleaving
// correctly with the line being edited.
func (c *Console) Writer() io.Writer {
	return c.term
}

// Restore returns the terminal to its initial state.
func (c *Console) Restore() {
	_ = os.Stdin.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

// setTerminalParams tunes the raw-mode termios so that reads return as soon
// as a byte is available, which term.Terminal's reader relies on for
// responsive line editing.
func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, false)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = os.Stdin.SetReadDeadline(time.Time{})

	return nil
}
