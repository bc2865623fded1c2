package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one argument: <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", args[0])
	}
	return id, nil
}

func printUserRow(w io.Writer, u models.User) {
	fmt.Fprintf(w, "%12d  %-25s  %s\n", u.ID, u.DisplayName(), u.Email)
}

func printUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "ID:         %d\n", u.ID)
	fmt.Fprintf(w, "Name:       %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(w, "Username:   %s\n", u.Username)
	fmt.Fprintf(w, "Email:      %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone:      %s\n", u.Phone)
	}
	if u.Age > 0 {
		fmt.Fprintf(w, "Age:        %d\n", u.Age)
	}
	if u.Address != nil {
		fmt.Fprintf(w, "Address:    %s, %s %s %s\n", u.Address.Street, u.Address.City, u.Address.State, u.Address.PostalCode)
	}
	if u.Company != nil {
		fmt.Fprintf(w, "Company:    %s", u.Company.Name)
		if u.Company.Title != "" {
			fmt.Fprintf(w, " (%s)", u.Company.Title)
		}
		fmt.Fprintln(w)
	}
}
