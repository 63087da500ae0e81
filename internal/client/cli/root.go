package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// getStatus renders the prompt suffix: the session subject (when known) and
// whether the session is authenticated.
func (a *App) getStatus() string {
	st := a.session.Snapshot()

	who := st.Subject
	if st.User != nil {
		who = st.User.Email
	}

	mode := "guest"
	if st.Authenticated {
		mode = "auth"
	}

	if who != "" {
		return fmt.Sprintf("(%s %s)", who, mode)
	}
	return fmt.Sprintf("(%s)", mode)
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to acctcli (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "acctcli %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.session.Snapshot().Authenticated {
				fmt.Fprintln(a.out, "Available commands: whoami, profile, update, refresh, logout, delete-account, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: register, login, whoami, exit")
			}
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.Whoami(ctx)
		case "profile":
			a.Profile(ctx)
		case "update":
			a.UpdateProfile(ctx)
		case "refresh":
			a.Refresh(ctx)
		case "delete-account":
			a.DeleteAccount(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}
