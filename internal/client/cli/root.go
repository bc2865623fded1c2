package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	sess := a.auth.Session()
	if sess.IsAuthenticated() {
		return fmt.Sprintf("(%s)", sess.User.Username)
	}
	return "(anonymous)"
}

// Root runs the command loop. Commands read everything they need from
// a.reader; in-flight requests are abandoned when ctx is cancelled.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to dirkeeper CLI (type 'help' for commands)")

	a.bootstrap(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Fprintf(a.out, "dirk %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
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
			if a.auth.Session().IsAuthenticated() {
				fmt.Fprintln(a.out, "Available commands: list, show <id>, add, edit <id>, delete <id>, me, profile, deleteself, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: login, list, show <id>, exit")
			}
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "me":
			a.me(ctx)
		case "list":
			a.list(ctx, args)
		case "show":
			a.show(ctx, args)
		case "add":
			a.add(ctx)
		case "edit":
			a.edit(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "profile":
			a.profile(ctx)
		case "deleteself":
			a.deleteSelf(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// bootstrap restores the previous session. The cached profile is shown
// right away; the token check against the server settles the real state.
func (a *App) bootstrap(ctx context.Context) {
	if cached := a.auth.CachedUser(ctx); cached != nil {
		fmt.Fprintf(a.out, "Welcome back, %s (verifying session...)\n", cached.DisplayName())
	}
	sess := a.auth.Bootstrap(ctx)
	if sess.IsAuthenticated() {
		fmt.Fprintf(a.out, "Signed in as %s\n", sess.User.DisplayName())
	}
}
