package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kawa-mspr/auth-service/internal/logging"
)

// Store captures the persistence operations the account workflow needs.
// *Repository satisfies it; tests substitute an in-memory fake.
type Store interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher hashes plaintext passwords before they reach the store.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// ViewCache is the read cache for user views. A nil cache disables caching.
type ViewCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

// Service implements the account workflow: list, read, profile update,
// password update, delete. It holds no mutable state of its own and is safe
// for concurrent use.
type Service struct {
	store  Store
	hasher PasswordHasher
	cache  ViewCache
	logger *logging.Logger
}

func NewService(store Store, hasher PasswordHasher, cache ViewCache, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		cache:  cache,
		logger: logger,
	}
}

// List returns the public views of all users.
func (s *Service) List(ctx context.Context) ([]View, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]View, len(users))
	for i, u := range users {
		views[i] = NewView(u)
	}
	return views, nil
}

// GetByID returns the view for a single user, consulting the cache first.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (View, error) {
	key := idKey(id)
	if view, ok := s.cacheGet(ctx, key); ok {
		return view, nil
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}

	view := NewView(u)
	s.cacheSet(ctx, key, view)
	return view, nil
}

// GetByEmail returns the view for the user holding the email.
func (s *Service) GetByEmail(ctx context.Context, email string) (View, error) {
	key := emailKey(email)
	if view, ok := s.cacheGet(ctx, key); ok {
		return view, nil
	}

	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return View{}, err
	}

	view := NewView(u)
	s.cacheSet(ctx, key, view)
	return view, nil
}

// UpdateProfile overwrites both name fields with the given values. There are
// no partial-update semantics: empty strings are written as given.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (View, error) {
	u, err := s.store.UpdateProfile(ctx, id, firstName, lastName)
	if err != nil {
		return View{}, err
	}

	s.invalidate(ctx, u.ID, u.Email)
	return NewView(u), nil
}

// UpdatePassword hashes the new password and overwrites the stored hash.
func (s *Service) UpdatePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.store.UpdatePassword(ctx, id, hash)
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, u.ID, u.Email)
	return nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (View, bool) {
	if s.cache == nil {
		return View{}, false
	}
	var view View
	ok, err := s.cache.Get(ctx, key, &view)
	if err != nil {
		s.logger.Warn("user cache read failed", "key", key, "error", err)
		return View{}, false
	}
	return view, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, view View) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, view); err != nil {
		s.logger.Warn("user cache write failed", "key", key, "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID, email string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, idKey(id), emailKey(email)); err != nil {
		s.logger.Warn("user cache invalidation failed", "user_id", id, "error", err)
	}
}

func idKey(id uuid.UUID) string {
	return "id:" + id.String()
}

func emailKey(email string) string {
	return "email:" + email
}
