package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/medml/medcli/internal/client/router"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Navigate(ctx context.Context, path string) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Act(ctx context.Context, name string, args []string) error
}

const (
	helpSignedOut = "Available commands: login, register, open <path>, exit"
	helpSignedIn  = "Available commands: dashboard, patients [search], patient <id>, history [page], profile, chat, room <id>,\n" +
		"  addpatient, editpatient <id>, upload <image> [patient-id], editprofile, newroom <name> <member-id>..., send <room-id> <text>,\n" +
		"  read <room-id>, report <from> <to>, open <path>, whoami, logout, exit"
)

// actions are commands that change data. Each runs on a route and goes
// through the guard first, see App.Act.
var actions = map[string]bool{
	"addpatient":  true,
	"editpatient": true,
	"upload":      true,
	"editprofile": true,
	"newroom":     true,
	"send":        true,
	"read":        true,
	"report":      true,
}

// shortcutPath maps a page command to the path it opens. ok is false when
// cmd is not a page command; usage is set when the arguments are wrong.
func shortcutPath(cmd string, args []string) (path string, ok bool, usage string) {
	switch cmd {
	case "open", "go":
		if len(args) == 0 {
			return "", true, "Usage: open <path>"
		}
		return args[0], true, ""
	case "login":
		return router.LoginPath, true, ""
	case "dashboard":
		return "/dashboard", true, ""
	case "patients":
		if len(args) == 0 {
			return router.DefaultPath, true, ""
		}
		return router.DefaultPath + "?search=" + url.QueryEscape(strings.Join(args, " ")), true, ""
	case "patient":
		if len(args) == 0 {
			return "", true, "Usage: patient <id>"
		}
		return "/patients/" + url.PathEscape(args[0]), true, ""
	case "history":
		if len(args) == 0 {
			return "/history", true, ""
		}
		return "/history?page=" + url.QueryEscape(args[0]), true, ""
	case "profile":
		return "/profile", true, ""
	case "chat":
		return "/chat", true, ""
	case "room":
		if len(args) == 0 {
			return "", true, "Usage: room <id>"
		}
		return "/chat/" + url.PathEscape(args[0]), true, ""
	}
	return "", false, ""
}

// runREPL starts a simple read–eval–print loop for the medcli client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Page commands become
// navigations, data-changing commands become actions. Unknown commands are
// reported back to the user. The loop exits on scanner EOF, on ctx
// cancellation, or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("medcli %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if path, ok, usage := shortcutPath(cmd, args); ok {
			if usage != "" {
				printlnFn(usage)
				continue
			}
			_ = a.Navigate(ctx, path)
			continue
		}
		if actions[cmd] {
			_ = a.Act(ctx, cmd, args)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
