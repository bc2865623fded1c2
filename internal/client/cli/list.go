package cli

import (
	"context"
	"fmt"
	"strconv"
)

// list prints one page of the directory. An optional argument selects the
// page number, starting at 1.
func (a *App) list(ctx context.Context, args []string) {
	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			fmt.Fprintln(a.out, "Invalid page:", args[0])
			return
		}
		page = p
	}

	limit := a.config.PageLimit
	skip := (page - 1) * limit

	result, err := a.users.List(ctx, limit, skip)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if len(result.Users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return
	}

	fmt.Fprintf(a.out, "%12s  %-25s  %s\n", "ID", "NAME", "EMAIL")
	for _, u := range result.Users {
		printUserRow(a.out, u)
	}
	if result.Total > 0 {
		pages := (result.Total + limit - 1) / limit
		fmt.Fprintf(a.out, "Page %d of %d (%d users)\n", page, pages, result.Total)
	}
}

func (a *App) show(ctx context.Context, args []string) {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	printUser(a.out, *user)
}
