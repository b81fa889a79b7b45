package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	Token(ctx context.Context) error
	Register(ctx context.Context) error
	Get(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Health(ctx context.Context) error
	Secret(ctx context.Context) error
}

// runREPL reads commands line by line from reader until EOF or exit/quit.
// Command failures are reported to w and never end the loop.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprint(w, "medmod> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(w, "Available commands: token, register, get <id>, delete <id>, health, secret, exit")

		case "token":
			cmdErr = a.Token(ctx)

		case "register":
			cmdErr = a.Register(ctx)

		case "get", "delete":
			if len(args) != 1 {
				fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
				continue
			}
			if cmd == "get" {
				cmdErr = a.Get(ctx, args[0])
			} else {
				cmdErr = a.Delete(ctx, args[0])
			}

		case "health":
			cmdErr = a.Health(ctx)

		case "secret":
			cmdErr = a.Secret(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}
