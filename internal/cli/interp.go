package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/randalmurphal/dynexport/pkg/dynexport"
)

var (
	// ErrUnknownCommand is returned for a script line that is not a command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoJournal is returned by the journal command when none is configured.
	ErrNoJournal = errors.New("no journal configured")
)

// Interpreter executes command lines against a registry's attribute class:
//
//	write <path> <value>
//	read <path>
//	ls [node]
//	journal
//
// Blank lines and lines starting with # are skipped. A failing command is
// reported on the output and does not stop the script.
type Interpreter struct {
	reg *dynexport.Registry
	out io.Writer
}

// NewInterpreter creates an interpreter writing results to out.
func NewInterpreter(reg *dynexport.Registry, out io.Writer) *Interpreter {
	return &Interpreter{reg: reg, out: out}
}

// Run executes every line of in until EOF or ctx is cancelled. On
// cancellation in is closed if it is an io.Closer, which unblocks the line
// reader. A reader that cannot be closed, such as a terminal, keeps its
// goroutine parked in Read until the process exits.
func (it *Interpreter) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	lineNo := 0
	for {
		select {
		case <-ctx.Done():
			if c, ok := in.(io.Closer); ok {
				_ = c.Close()
			}
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read script: %w", err)
					}
				default:
				}
				return nil
			}
			lineNo++
			if err := it.Exec(line); err != nil {
				fmt.Fprintf(it.out, "line %d: %v\n", lineNo, err)
			}
		}
	}
}

// Exec executes a single command line.
func (it *Interpreter) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "write":
		path, value, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: write <path> <value>")
		}
		return it.reg.Class().Write(path, strings.TrimSpace(value))
	case "read":
		if rest == "" {
			return fmt.Errorf("usage: read <path>")
		}
		v, err := it.reg.Class().Read(rest)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(it.out, v)
		return err
	case "ls":
		entries, err := it.reg.Class().List(rest)
		if err != nil {
			return err
		}
		for _, e := range entries {
			kind := e.Mode.String()
			if e.IsDir {
				kind = "d"
			}
			if _, err := fmt.Fprintf(it.out, "%s\t%s\n", kind, e.Name); err != nil {
				return err
			}
		}
		return nil
	case "journal":
		return it.printJournal()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func (it *Interpreter) printJournal() error {
	store := it.reg.Journal()
	if store == nil {
		return ErrNoJournal
	}
	entries, err := store.List(it.reg.SessionID())
	if err != nil {
		return err
	}
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = e.Error
		}
		if _, err := fmt.Fprintf(it.out, "%d\t%s\t%d\t%s\n", e.Sequence, e.Op, e.RecordID, status); err != nil {
			return err
		}
	}
	return nil
}
