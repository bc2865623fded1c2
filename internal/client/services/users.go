// Package services contains the application services of the dirkeeper
// client: the user directory (CRUD over the remote API with the local
// overlay layered in) and the auth session.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/client/api"
	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/overlay"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
	"github.com/dmitrijs2005/dirkeeper/internal/shared"
	"github.com/google/uuid"
)

// defaultImage is assigned to locally created users without an avatar.
const defaultImage = "https://dummyjson.com/icon/512x512.png"

// mirrorTimeout bounds a background mirror call. Detached from the caller's
// context on purpose: the caller has already been answered.
const mirrorTimeout = 30 * time.Second

// UserList is the merged directory view handed to the UI.
type UserList struct {
	Users []models.User
	Total int
}

// UserService is the public CRUD surface of the directory.
//
// Failure policy, the central contract of this service: local overlay
// mutations are synchronous and infallible from the caller's perspective,
// remote mirroring is best-effort and never blocks or fails the local
// operation. Only caller bugs (bad id, nil payload) are raised.
type UserService interface {
	// List returns one merged page. Remote failures degrade to the
	// overlay-only view with Total 0 instead of an error, so the
	// directory stays usable offline.
	List(ctx context.Context, limit, skip int) (*UserList, error)

	// GetByID returns the effective entity: a locally created user is
	// returned directly without a network call; otherwise the server
	// entity with the overlay applied. A locally deleted id yields
	// shared.ErrNotFound even when the server still has the user.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// Create stores the new user in the overlay before any network I/O
	// and never fails on remote errors: on a successful mirror it
	// returns the server's entity, otherwise the local one.
	Create(ctx context.Context, payload *models.User) (*models.User, error)

	// Update writes the patch to the overlay and returns the locally
	// merged entity immediately. The remote mirror runs in the
	// background; callers re-fetch to see the server-reconciled view.
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)

	// Delete marks the id deleted locally; the id never reappears in
	// List/GetByID regardless of the background mirror's outcome.
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	client  api.Client
	overlay *overlay.Service
	log     logging.Logger

	mirrors sync.WaitGroup
}

// NewUserService constructs a UserService over the given API client and
// overlay store.
func NewUserService(client api.Client, ov *overlay.Service, log logging.Logger) UserService {
	return &userService{
		client:  client,
		overlay: ov,
		log:     log.With("component", "users"),
	}
}

func (s *userService) List(ctx context.Context, limit, skip int) (*UserList, error) {
	page, err := s.client.ListUsers(ctx, limit, skip)
	store := s.overlay.Read(ctx)
	if err != nil {
		// degrade to the local view rather than an error screen
		s.log.Warn(ctx, "list fetch failed, serving local overlay only", "error", err)
		return &UserList{Users: overlay.ApplyToList(nil, store), Total: 0}, nil
	}
	return &UserList{Users: overlay.ApplyToList(page.Users, store), Total: page.Total}, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user id is required: %w", shared.ErrInvalidArgument)
	}

	store := s.overlay.Read(ctx)
	if u, ok := store.Created[id]; ok {
		// local creations are authoritative and never exist remotely
		return &u, nil
	}

	remote, err := s.client.GetUser(ctx, id)
	store = s.overlay.Read(ctx) // may have changed during the round trip
	if err != nil {
		if store.IsDeleted(id) {
			return nil, fmt.Errorf("user not found (deleted): %w", shared.ErrNotFound)
		}
		return nil, err
	}

	merged, err := overlay.ApplyToUser(*remote, store)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *userService) Create(ctx context.Context, payload *models.User) (*models.User, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload is required: %w", shared.ErrInvalidArgument)
	}
	if payload.FirstName == "" && payload.LastName == "" && payload.Username == "" && payload.Email == "" {
		return nil, fmt.Errorf("payload has no identifying fields: %w", shared.ErrInvalidArgument)
	}

	local := *payload
	local.ID = overlay.NewLocalID(s.overlay.Read(ctx))
	if local.Image == "" {
		local.Image = defaultImage
	}

	// local first: the caller can show the user before any network settles
	s.overlay.AddCreated(ctx, local)

	remote, err := s.client.CreateUser(ctx, *payload)
	if err != nil {
		mirrorFailuresTotal.WithLabelValues("create").Inc()
		s.log.Warn(ctx, "remote create failed, keeping local entity", "id", local.ID, "error", err)
		return &local, nil
	}
	// the overlay keeps the client-generated id and entity regardless
	return remote, nil
}

func (s *userService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user id is required: %w", shared.ErrInvalidArgument)
	}

	store := s.overlay.AddPatch(ctx, id, patch)

	base := models.User{ID: id}
	if created, ok := store.Created[id]; ok {
		base = created
	}
	merged := overlay.MergeUser(base, patch)
	merged.ID = id

	s.mirrorRemote("update", func(ctx context.Context) error {
		_, err := s.client.UpdateUser(ctx, id, patch)
		return err
	})

	return &merged, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("user id is required: %w", shared.ErrInvalidArgument)
	}

	s.overlay.MarkDeleted(ctx, id)

	s.mirrorRemote("delete", func(ctx context.Context) error {
		return s.client.DeleteUser(ctx, id)
	})

	return nil
}

// mirrorRemote runs fn in the background with its own timeout, detached
// from the caller's context. The policy is log-and-drop: a mirror failure
// is counted and logged but never reaches the caller, and a panic in fn is
// contained.
func (s *userService) mirrorRemote(op string, fn func(ctx context.Context) error) {
	mirrorID := uuid.NewString()
	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()
		defer func() {
			if r := recover(); r != nil {
				mirrorFailuresTotal.WithLabelValues(op).Inc()
				s.log.Error(context.Background(), "remote mirror panicked", "op", op, "mirror_id", mirrorID, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			mirrorFailuresTotal.WithLabelValues(op).Inc()
			s.log.Warn(ctx, "remote mirror failed", "op", op, "mirror_id", mirrorID, "error", err)
		}
	}()
}

// waitMirrors blocks until all in-flight mirror calls settle. Used by tests.
func (s *userService) waitMirrors() {
	s.mirrors.Wait()
}
