package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/memoirapp/mediakit/internal/client/credcache"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	s += string(a.scope)
	return fmt.Sprintf("(%s)", s)
}

// Root runs the REPL until exit or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Memoir client (type 'help' for commands)")

	for {
		line, err := GetSimpleText(a.in, "", a.out)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: scope <personal|couple>, upload <album-id> <files...>, list, more, sign <key>, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)

		case "login":
			a.Login(ctx)

		case "logout":
			a.Logout(ctx)

		case "scope":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "usage: scope <personal|couple>")
				continue
			}
			switch credcache.Scope(args[0]) {
			case credcache.ScopePersonal, credcache.ScopeCouple:
				a.setScope(credcache.Scope(args[0]))
				fmt.Fprintln(a.out, "scope set to", args[0])
			default:
				fmt.Fprintln(a.out, "unknown scope", args[0])
			}

		case "upload":
			if !a.isLoggedIn() {
				fmt.Fprintln(a.out, "log in first")
				continue
			}
			if len(args) < 2 {
				fmt.Fprintln(a.out, "usage: upload <album-id> <files...>")
				continue
			}
			a.Upload(ctx, args[0], args[1:])

		case "list":
			a.List(ctx)

		case "more":
			a.More(ctx)

		case "sign":
			if len(args) != 1 {
				fmt.Fprintln(a.out, "usage: sign <key-or-url>")
				continue
			}
			a.Sign(ctx, args[0])

		case "exit":
			return

		default:
			fmt.Fprintln(a.out, "unknown command", cmd)
		}

		fmt.Fprintf(a.out, "memoir %s ", a.getStatus())
	}
}
