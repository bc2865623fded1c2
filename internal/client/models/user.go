// Package models contains the data structures shared by the dirkeeper client:
// the user entity served by the remote directory API and the partial-record
// types used by the local overlay.
package models

// Address is a one-level-nested attribute group of a user.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Company is a one-level-nested attribute group of a user.
type Company struct {
	Name       string `json:"name,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
}

// User is the directory entity. Users are identified solely by ID; server
// ids are small integers, locally created ids are millisecond timestamps.
type User struct {
	ID        int64    `json:"id,omitempty"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Username  string   `json:"username,omitempty"`
	Password  string   `json:"password,omitempty"`
	Image     string   `json:"image,omitempty"`
	Role      string   `json:"role,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Age       int      `json:"age,omitempty"`
	Address   *Address `json:"address,omitempty"`
	Company   *Company `json:"company,omitempty"`
}

// AddressPatch is a partial Address. Nil fields are "not touched".
type AddressPatch struct {
	Street     *string `json:"street,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
}

// CompanyPatch is a partial Company. Nil fields are "not touched".
type CompanyPatch struct {
	Name       *string `json:"name,omitempty"`
	Title      *string `json:"title,omitempty"`
	Department *string `json:"department,omitempty"`
}

// UserPatch is a partial User: the set of fields a local update touched.
// Pointer fields keep "absent" distinct from "set to the zero value", which
// is what makes patches mergeable without erasing untouched data.
type UserPatch struct {
	FirstName *string       `json:"firstName,omitempty"`
	LastName  *string       `json:"lastName,omitempty"`
	Email     *string       `json:"email,omitempty"`
	Phone     *string       `json:"phone,omitempty"`
	Username  *string       `json:"username,omitempty"`
	Password  *string       `json:"password,omitempty"`
	Image     *string       `json:"image,omitempty"`
	Role      *string       `json:"role,omitempty"`
	Gender    *string       `json:"gender,omitempty"`
	Age       *int          `json:"age,omitempty"`
	Address   *AddressPatch `json:"address,omitempty"`
	Company   *CompanyPatch `json:"company,omitempty"`
}

// IsZero reports whether the patch touches nothing at all.
func (p UserPatch) IsZero() bool {
	return p == UserPatch{}
}

// DisplayName returns a human-readable name for lists and prompts.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}
