package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

func (a *App) add(ctx context.Context) {
	user := &models.User{}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &user.FirstName},
		{"Last name", &user.LastName},
		{"Username", &user.Username},
		{"Email", &user.Email},
		{"Phone (optional)", &user.Phone},
	}
	for _, f := range fields {
		value, err := GetSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
			return
		}
		*f.dst = value
	}

	created, err := a.users.Create(ctx, user)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Created user %s with id %d\n", created.DisplayName(), created.ID)
}
