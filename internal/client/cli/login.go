package cli

import (
	"context"
	"fmt"
)

func (a *App) login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	sess, err := a.auth.Login(ctx, username, password)
	if err != nil {
		if sess.Err != "" {
			fmt.Fprintln(a.out, "Login failed:", sess.Err)
		} else {
			fmt.Fprintln(a.out, "Login failed:", err)
		}
		return
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", sess.User.DisplayName())
}

func (a *App) logout(ctx context.Context) {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
}

func (a *App) me(ctx context.Context) {
	sess := a.auth.Session()
	if !sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in (use 'login')")
		return
	}
	printUser(a.out, *sess.User)
}
