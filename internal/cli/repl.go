package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	Register(ctx context.Context) error
	Login(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
// Handler errors are ignored here; handlers report their own failures.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		printlnFn("ck> ")
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: register, login, exit")

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
