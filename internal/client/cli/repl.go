package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	SignOut(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	DeleteAccount(ctx context.Context) error

	Home(ctx context.Context) error
	Trending(ctx context.Context) error
	Bookmarks(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Page(ctx context.Context, n int) error

	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Update(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Bookmark(ctx context.Context, id string) error
}

const (
	helpAnonymous = "Available commands: home, trending, search [query], next, prev, page <n>, signin, signup, exit"
	helpSignedIn  = "Available commands: home, trending, bookmarks, search [query], next, prev, page <n>, " +
		"show <id>, create, update <id>, delete <id>, bookmark <id>, whoami, signout, deleteaccount, exit"
)

// runREPL starts a simple read–eval–print loop for the Shalo CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shalo %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "signin", "login":
			_ = a.SignIn(ctx)
		case "signup", "register":
			_ = a.SignUp(ctx)
		case "signout", "logout":
			_ = a.SignOut(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "deleteaccount":
			_ = a.DeleteAccount(ctx)

		case "home":
			_ = a.Home(ctx)
		case "trending":
			_ = a.Trending(ctx)
		case "bookmarks":
			_ = a.Bookmarks(ctx)
		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))
		case "n", "next":
			_ = a.Next(ctx)
		case "p", "prev":
			_ = a.Prev(ctx)
		case "page":
			n, ok := intArg(args)
			if !ok {
				printlnFn("Usage: page <n>")
				continue
			}
			_ = a.Page(ctx, n)

		case "show", "update", "delete", "bookmark":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			id := args[0]
			switch cmd {
			case "show":
				_ = a.Show(ctx, id)
			case "update":
				_ = a.Update(ctx, id)
			case "delete":
				_ = a.Delete(ctx, id)
			case "bookmark":
				_ = a.Bookmark(ctx, id)
			}
		case "create":
			_ = a.Create(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func intArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	return n, err == nil
}
