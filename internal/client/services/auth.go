package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/dirkeeper/internal/client/api"
	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/overlay"
	"github.com/dmitrijs2005/dirkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
	"github.com/dmitrijs2005/dirkeeper/internal/shared"
)

// AuthService owns the session state machine:
//
//	Bootstrapping -> {Authenticated, Anonymous}
//	Authenticated -> Anonymous on logout or on any refresh failure
//
// Any failure while validating the stored token is session-invalidating;
// there is no degraded half-authenticated state.
type AuthService interface {
	// Bootstrap validates a stored token on start. With no token it goes
	// straight to Anonymous; a fetch failure clears the token.
	Bootstrap(ctx context.Context) models.Session

	// Login exchanges credentials for a session. An empty username or
	// password is shared.ErrInvalidArgument. On remote failure the error
	// message lands in Session.Err and the stored token is untouched.
	Login(ctx context.Context, username, password string) (models.Session, error)

	// Logout clears the token and returns to Anonymous.
	Logout(ctx context.Context) models.Session

	// Session returns the current in-memory session.
	Session() models.Session

	// CachedUser returns the last-known profile persisted for instant
	// display before Bootstrap settles, or nil.
	CachedUser(ctx context.Context) *models.User

	// UpdateProfile patches the signed-in user through the directory
	// service and reflects the merged result in the session, regardless
	// of the remote mirror's outcome.
	UpdateProfile(ctx context.Context, patch models.UserPatch) (models.Session, error)

	// DeleteSelf removes the signed-in user locally and ends the session.
	DeleteSelf(ctx context.Context) (models.Session, error)
}

type authService struct {
	client  api.Client
	users   UserService
	overlay *overlay.Service
	meta    metadata.Repository
	log     logging.Logger

	mu      sync.Mutex
	session models.Session
	// gen invalidates in-flight bootstraps: login/logout bump it, and a
	// result produced under an older generation is discarded instead of
	// resurrecting a stale session.
	gen uint64
}

// NewAuthService constructs an AuthService. users is used for the
// profile-editing operations so the session shares the directory's overlay
// semantics instead of re-deriving them.
func NewAuthService(client api.Client, users UserService, ov *overlay.Service, meta metadata.Repository, log logging.Logger) AuthService {
	return &authService{
		client:  client,
		users:   users,
		overlay: ov,
		meta:    meta,
		log:     log.With("component", "auth"),
		session: models.Session{State: models.StateBootstrapping},
	}
}

func (a *authService) Session() models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// apply installs s unless the generation moved while the caller was doing
// I/O, in which case the newer session wins and s is dropped.
func (a *authService) apply(gen uint64, s models.Session) models.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return a.session
	}
	a.session = s
	return s
}

func (a *authService) token(ctx context.Context) string {
	raw, err := a.meta.Get(ctx, metadata.KeyToken)
	if err != nil {
		a.log.Warn(ctx, "token read failed", "error", err)
		return ""
	}
	return string(raw)
}

func (a *authService) storeToken(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := a.meta.Set(ctx, metadata.KeyToken, []byte(token)); err != nil {
		a.log.Warn(ctx, "token write failed", "error", err)
	}
}

func (a *authService) clearToken(ctx context.Context) {
	if err := a.meta.Delete(ctx, metadata.KeyToken); err != nil {
		a.log.Warn(ctx, "token delete failed", "error", err)
	}
	if err := a.meta.Delete(ctx, metadata.KeyCurrentUser); err != nil {
		a.log.Warn(ctx, "cached profile delete failed", "error", err)
	}
}

func (a *authService) cacheUser(ctx context.Context, u models.User) {
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := a.meta.Set(ctx, metadata.KeyCurrentUser, raw); err != nil {
		a.log.Warn(ctx, "profile cache write failed", "error", err)
	}
}

func (a *authService) CachedUser(ctx context.Context) *models.User {
	raw, err := a.meta.Get(ctx, metadata.KeyCurrentUser)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

func (a *authService) Bootstrap(ctx context.Context) models.Session {
	a.mu.Lock()
	gen := a.gen
	a.session = models.Session{State: models.StateBootstrapping}
	a.mu.Unlock()

	token := a.token(ctx)
	if token == "" {
		return a.apply(gen, models.Session{State: models.StateAnonymous})
	}

	user, err := a.client.CurrentUser(ctx)
	var merged models.User
	if err == nil {
		// the current user is subject to the same overlay as everyone else;
		// a locally deleted self invalidates the session
		merged, err = overlay.ApplyToUser(*user, a.overlay.Read(ctx))
	}
	if err != nil {
		a.log.Info(ctx, "stored token rejected, starting anonymous", "error", err)
		a.clearToken(ctx)
		return a.apply(gen, models.Session{State: models.StateAnonymous})
	}

	sess := models.Session{
		State: models.StateAuthenticated,
		Token: token,
		User:  &merged,
	}
	installed := a.apply(gen, sess)
	if installed.User == sess.User {
		a.cacheUser(ctx, merged)
	}
	return installed
}

func (a *authService) Login(ctx context.Context, username, password string) (models.Session, error) {
	if username == "" || password == "" {
		return a.Session(), fmt.Errorf("username and password are required: %w", shared.ErrInvalidArgument)
	}

	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.session = models.Session{State: models.StateBootstrapping}
	a.mu.Unlock()

	res, err := a.client.Login(ctx, username, password)
	if err != nil {
		// the stored token is left untouched
		return a.apply(gen, models.Session{State: models.StateAnonymous, Err: err.Error()}), err
	}

	token := res.BearerToken()
	a.storeToken(ctx, token)
	user := res.User
	a.cacheUser(ctx, user)

	return a.apply(gen, models.Session{
		State: models.StateAuthenticated,
		Token: token,
		User:  &user,
	}), nil
}

func (a *authService) Logout(ctx context.Context) models.Session {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	a.clearToken(ctx)
	return a.apply(gen, models.Session{State: models.StateAnonymous})
}

func (a *authService) UpdateProfile(ctx context.Context, patch models.UserPatch) (models.Session, error) {
	sess := a.Session()
	if !sess.IsAuthenticated() {
		return sess, fmt.Errorf("no signed-in user: %w", shared.ErrUnauthorized)
	}

	if _, err := a.users.Update(ctx, sess.User.ID, patch); err != nil {
		return sess, err
	}

	// reflect the merged view immediately; the mirror outcome is irrelevant
	merged := overlay.MergeUser(*sess.User, patch)
	a.cacheUser(ctx, merged)

	a.mu.Lock()
	gen := a.gen
	a.mu.Unlock()
	next := sess
	next.User = &merged
	return a.apply(gen, next), nil
}

func (a *authService) DeleteSelf(ctx context.Context) (models.Session, error) {
	sess := a.Session()
	if !sess.IsAuthenticated() {
		return sess, fmt.Errorf("no signed-in user: %w", shared.ErrUnauthorized)
	}

	if err := a.users.Delete(ctx, sess.User.ID); err != nil {
		return sess, err
	}
	return a.Logout(ctx), nil
}
