package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// promptPatch asks for each editable field, leaving skipped fields out of
// the patch entirely.
func (a *App) promptPatch() (models.UserPatch, error) {
	patch := models.UserPatch{}

	fields := []struct {
		prompt string
		dst    **string
	}{
		{"First name", &patch.FirstName},
		{"Last name", &patch.LastName},
		{"Email", &patch.Email},
		{"Phone", &patch.Phone},
	}
	for _, f := range fields {
		value, err := GetOptionalText(a.reader, f.prompt, a.out)
		if err != nil {
			return patch, err
		}
		*f.dst = value
	}

	city, err := GetOptionalText(a.reader, "City", a.out)
	if err != nil {
		return patch, err
	}
	if city != nil {
		patch.Address = &models.AddressPatch{City: city}
	}

	company, err := GetOptionalText(a.reader, "Company name", a.out)
	if err != nil {
		return patch, err
	}
	if company != nil {
		patch.Company = &models.CompanyPatch{Name: company}
	}

	return patch, nil
}

func (a *App) edit(ctx context.Context, args []string) {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	current, err := a.users.GetByID(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Editing %s\n", current.DisplayName())

	patch, err := a.promptPatch()
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if patch.IsZero() {
		fmt.Fprintln(a.out, "Nothing to change")
		return
	}

	updated, err := a.users.Update(ctx, id, patch)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Updated user %d\n", updated.ID)
}

func (a *App) delete(ctx context.Context, args []string) {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}

	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete user %d? (y/N)", id), a.out)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	if err := a.users.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return
	}
	fmt.Fprintf(a.out, "Deleted user %d\n", id)
}
