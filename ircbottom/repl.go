// =============================================================================
// repl.go - REPL Loop
// =============================================================================
//
// runREPL reads lines from the LineEditor, translates them (translate.go)
// and sends the result through the client. Server output is printed by the
// handlers in handlers.go, concurrently with the prompt.
//
// The prompt shows the current target: "[#go] > ", or "> " when there is
// none.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

// lineReader is the part of LineEditor the REPL uses.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// prompt returns the REPL prompt for the current target.
func prompt(target string) string {
	if target == "" {
		return "> "
	}
	return "[" + target + "] > "
}

// runREPL runs the main REPL loop until EOF, /quit, or ctx is done.
//
// target is the initial target, usually the first configured channel.
func runREPL(ctx context.Context, client *ircprotocol.Client, editor lineReader, out io.Writer, target string) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := editor.GetLine(prompt(target))
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		act, err := translateInput(line, target)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		if act.changeTarget {
			target = act.target
		}

		switch act.kind {
		case actionHelp:
			printHelp(out, act.topic)

		case actionTarget:
			if target == "" {
				fmt.Fprintln(out, "No current target")
			} else {
				fmt.Fprintf(out, "Now talking to %s\n", target)
			}

		case actionQuit:
			if client.Connected() {
				if err := client.Send(act.command, act.params); err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
				}
			}
			return nil

		case actionSend:
			if err := client.Send(act.command, act.params); err != nil {
				printSendError(out, err)
			}
		}
	}
}

// printSendError explains a failed send.
func printSendError(out io.Writer, err error) {
	var encErr *ircprotocol.EncodingError
	switch {
	case errors.Is(err, ircprotocol.ErrNotConnected):
		fmt.Fprintln(out, "Error: not connected to the server")
	case errors.As(err, &encErr):
		fmt.Fprintf(out, "Error: %v\n", encErr)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
