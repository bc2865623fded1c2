// Package api implements the HTTP client for the remote user directory
// service. It is a thin transport: JSON bodies, bearer-token injection,
// fixed request timeout and error normalization. All persistence-feel is
// layered on top by the overlay and the services.
package api

import (
	"context"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// TokenSource supplies the current bearer token, or "" when anonymous.
// Reading the token fresh per request keeps the client stateless across
// login/logout.
type TokenSource func(ctx context.Context) string

// UserPage is one page of the remote users collection.
type UserPage struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

// LoginResult is the authentication response: the user's own fields plus a
// token. Depending on the API version the token arrives as "token" or
// "accessToken".
type LoginResult struct {
	models.User
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// BearerToken returns whichever token field the server populated.
func (r *LoginResult) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Client describes the remote directory API.
type Client interface {
	// ListUsers fetches one page of users.
	ListUsers(ctx context.Context, limit, skip int) (*UserPage, error)

	// GetUser fetches a single user by id.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// CreateUser submits a new user. The server assigns its own id, which
	// may differ from any id the caller uses locally.
	CreateUser(ctx context.Context, u models.User) (*models.User, error)

	// UpdateUser submits a partial update for id.
	UpdateUser(ctx context.Context, id int64, p models.UserPatch) (*models.User, error)

	// DeleteUser removes a user by id.
	DeleteUser(ctx context.Context, id int64) error

	// Login exchanges credentials for a token and the user's own record.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// CurrentUser fetches the profile of the token's owner.
	CurrentUser(ctx context.Context) (*models.User, error)
}
