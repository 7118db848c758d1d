// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	"github.com/dalemusser/taskhub/internal/app/system/apperr"
	"github.com/dalemusser/taskhub/internal/app/system/inputval"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const kind = "user"

var (
	// ErrDuplicateName is returned when another user already has the name.
	ErrDuplicateName = apperr.Invalid("name", "User name must be unique.")

	// ErrNameImmutable is returned when an update tries to set the name.
	ErrNameImmutable = apperr.Invalid("name", "User name cannot be updated.")
)

// TeamLister resolves the teams a user belongs to.
type TeamLister interface {
	TeamsForUser(ctx context.Context, userID string) ([]string, error)
}

// NewUser is the input to Create.
type NewUser struct {
	Name        string `json:"name" validate:"required,max=64" label:"Name"`
	DisplayName string `json:"display_name" validate:"max=64" label:"Display name"`
}

// UserUpdate carries the fields to change. Nil fields are left alone.
type UserUpdate struct {
	Name        *string `json:"name,omitempty"`
	DisplayName *string `json:"display_name,omitempty" validate:"omitnil,max=64" label:"Display name"`
}

type Store struct {
	h     *docstore.Handle[models.User]
	teams TeamLister
	log   *zap.Logger
}

// New opens the user collection at path. teams backs GetTeams.
func New(reg *docstore.Registry, path string, teams TeamLister, logger *zap.Logger) (*Store, error) {
	h, err := docstore.Open[models.User](reg, path)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{h: h, teams: teams, log: logger}, nil
}

// Path returns the collection file.
func (s *Store) Path() string { return s.h.Path() }

// Create validates in and stores a new user with a fresh id.
func (s *Store) Create(ctx context.Context, in NewUser) (models.User, error) {
	if err := inputval.Validate(in).Err(); err != nil {
		return models.User{}, err
	}
	var u models.User
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.User]) error {
		if nameTaken(snap, in.Name) {
			return ErrDuplicateName
		}
		u = models.User{
			ID:           newID(snap),
			Name:         in.Name,
			DisplayName:  in.DisplayName,
			CreationTime: models.Now(),
		}
		snap.Put(u.ID, u)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Debug("user created", zap.String("user_id", u.ID), zap.String("name", u.Name))
	return u, nil
}

// List returns every user in insertion order.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.h.Read().All(), nil
}

// Get returns the user with id.
func (s *Store) Get(ctx context.Context, id string) (models.User, error) {
	u, ok := s.h.Read().Get(id)
	if !ok {
		return models.User{}, apperr.NotFound(kind, id)
	}
	return u, nil
}

// Update applies upd to the user with id. The name can never change.
func (s *Store) Update(ctx context.Context, id string, upd UserUpdate) (models.User, error) {
	var out models.User
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.User]) error {
		u, ok := snap.Get(id)
		if !ok {
			return apperr.NotFound(kind, id)
		}
		if upd.Name != nil {
			return ErrNameImmutable
		}
		if err := inputval.Validate(upd).Err(); err != nil {
			return err
		}
		if upd.DisplayName != nil {
			u.DisplayName = *upd.DisplayName
		}
		snap.Put(id, u)
		out = u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Debug("user updated", zap.String("user_id", id))
	return out, nil
}

// GetTeams returns the ids of the teams whose member set contains userID.
// Team members are unchecked ids, so userID need not be a registered user.
func (s *Store) GetTeams(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, apperr.Invalid("id", "User id is required.")
	}
	if s.teams == nil {
		return []string{}, nil
	}
	ids, err := s.teams.TeamsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("teams for user %s: %w", userID, err)
	}
	return ids, nil
}

func nameTaken(snap *docstore.Snapshot[models.User], name string) bool {
	taken := false
	snap.Range(func(_ string, u models.User) bool {
		if u.Name == name {
			taken = true
			return false
		}
		return true
	})
	return taken
}

func newID(snap *docstore.Snapshot[models.User]) string {
	for {
		id := uuid.NewString()
		if !snap.Has(id) {
			return id
		}
	}
}
