package cli

import (
	"context"
	"fmt"
)

// profile edits the signed-in user's own record.
func (a *App) profile(ctx context.Context) {
	sess := a.auth.Session()
	if !sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in (use 'login')")
		return
	}
	fmt.Fprintf(a.out, "Editing profile of %s\n", sess.User.DisplayName())

	patch, err := a.promptPatch()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if patch.IsZero() {
		fmt.Fprintln(a.out, "Nothing to change")
		return
	}

	updated, err := a.auth.UpdateProfile(ctx, patch)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "Profile updated")
	printUser(a.out, *updated.User)
}

func (a *App) deleteSelf(ctx context.Context) {
	sess := a.auth.Session()
	if !sess.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not signed in (use 'login')")
		return
	}

	answer, err := GetSimpleText(a.reader, "Delete your account and sign out? (y/N)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	if _, err := a.auth.DeleteSelf(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintln(a.out, "Account deleted, signed out")
}
