// internal/app/store/teams/teamstore.go
package teamstore

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

const kind = "team"

var (
	// ErrDuplicateName is returned when another team already has the name.
	ErrDuplicateName = apperr.Invalid("name", "Team name must be unique.")

	// ErrTeamFull is returned when adding members would exceed MaxTeamMembers.
	ErrTeamFull = apperr.Invalid("user_ids", "Team cannot have more than %d users.", models.MaxTeamMembers)
)

// NewTeam is the input to Create.
type NewTeam struct {
	Name        string `json:"name" validate:"required,max=64" label:"Name"`
	Description string `json:"description" validate:"max=128" label:"Description"`
	Admin       string `json:"admin" validate:"required" label:"Admin"`
}

// TeamUpdate carries the fields to change. Nil fields are left alone.
type TeamUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,min=1,max=64" label:"Name"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=128" label:"Description"`
	Admin       *string `json:"admin,omitempty" validate:"omitnil,min=1" label:"Admin"`
}

type memberIDs struct {
	UserIDs []string `validate:"required,min=1,dive,required" label:"User ids"`
}

type Store struct {
	h   *docstore.Handle[models.Team]
	log *zap.Logger
}

// New opens the team collection at path.
func New(reg *docstore.Registry, path string, logger *zap.Logger) (*Store, error) {
	h, err := docstore.Open[models.Team](reg, path)
	if err != nil {
		return nil, fmt.Errorf("open teams: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{h: h, log: logger}, nil
}

// Path returns the collection file.
func (s *Store) Path() string { return s.h.Path() }

// Create validates in and stores a new team with no members.
func (s *Store) Create(ctx context.Context, in NewTeam) (models.Team, error) {
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Team{}, err
	}
	var t models.Team
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Team]) error {
		if nameTaken(snap, in.Name, "") {
			return ErrDuplicateName
		}
		t = models.Team{
			ID:           newID(snap),
			Name:         in.Name,
			Description:  in.Description,
			Admin:        in.Admin,
			CreationTime: models.Now(),
			Users:        []string{},
		}
		snap.Put(t.ID, t)
		return nil
	})
	if err != nil {
		return models.Team{}, err
	}
	s.log.Debug("team created", zap.String("team_id", t.ID), zap.String("name", t.Name))
	return t.Clone(), nil
}

// List returns every team in insertion order.
func (s *Store) List(ctx context.Context) ([]models.Team, error) {
	return s.h.Read().All(), nil
}

// Get returns the team with id.
func (s *Store) Get(ctx context.Context, id string) (models.Team, error) {
	t, ok := s.h.Read().Get(id)
	if !ok {
		return models.Team{}, apperr.NotFound(kind, id)
	}
	return t, nil
}

// Update applies upd to the team with id. A new name must not belong to
// another team.
func (s *Store) Update(ctx context.Context, id string, upd TeamUpdate) (models.Team, error) {
	var out models.Team
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Team]) error {
		t, ok := snap.Get(id)
		if !ok {
			return apperr.NotFound(kind, id)
		}
		if err := inputval.Validate(upd).Err(); err != nil {
			return err
		}
		if upd.Name != nil {
			if nameTaken(snap, *upd.Name, id) {
				return ErrDuplicateName
			}
			t.Name = *upd.Name
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Admin != nil {
			t.Admin = *upd.Admin
		}
		snap.Put(id, t)
		out = t.Clone()
		return nil
	})
	if err != nil {
		return models.Team{}, err
	}
	s.log.Debug("team updated", zap.String("team_id", id))
	return out, nil
}

// AddUsers adds userIDs to the team's member set. The size cap compares the
// current member count plus the number of ids supplied, before duplicates
// are collapsed.
func (s *Store) AddUsers(ctx context.Context, id string, userIDs []string) (models.Team, error) {
	if err := inputval.Validate(memberIDs{UserIDs: userIDs}).Err(); err != nil {
		return models.Team{}, err
	}
	var out models.Team
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Team]) error {
		t, ok := snap.Get(id)
		if !ok {
			return apperr.NotFound(kind, id)
		}
		if len(t.Users)+len(userIDs) > models.MaxTeamMembers {
			return ErrTeamFull
		}
		added := false
		for _, uid := range userIDs {
			if !t.HasMember(uid) {
				t.Users = append(t.Users, uid)
				added = true
			}
		}
		out = t.Clone()
		if !added {
			return docstore.ErrNoChange
		}
		snap.Put(id, t)
		return nil
	})
	if err != nil {
		return models.Team{}, err
	}
	s.log.Debug("team users added", zap.String("team_id", id), zap.Int("requested", len(userIDs)), zap.Int("members", len(out.Users)))
	return out, nil
}

// RemoveUsers removes userIDs from the team's member set. Ids that are not
// members are ignored.
func (s *Store) RemoveUsers(ctx context.Context, id string, userIDs []string) (models.Team, error) {
	if err := inputval.Validate(memberIDs{UserIDs: userIDs}).Err(); err != nil {
		return models.Team{}, err
	}
	drop := make(map[string]struct{}, len(userIDs))
	for _, uid := range userIDs {
		drop[uid] = struct{}{}
	}
	var out models.Team
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Team]) error {
		t, ok := snap.Get(id)
		if !ok {
			return apperr.NotFound(kind, id)
		}
		kept := make([]string, 0, len(t.Users))
		for _, uid := range t.Users {
			if _, gone := drop[uid]; !gone {
				kept = append(kept, uid)
			}
		}
		removed := len(kept) != len(t.Users)
		t.Users = kept
		out = t.Clone()
		if !removed {
			return docstore.ErrNoChange
		}
		snap.Put(id, t)
		return nil
	})
	if err != nil {
		return models.Team{}, err
	}
	s.log.Debug("team users removed", zap.String("team_id", id), zap.Int("requested", len(userIDs)), zap.Int("members", len(out.Users)))
	return out, nil
}

// ListUsers returns the member ids of the team.
func (s *Store) ListUsers(ctx context.Context, id string) ([]string, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Users, nil
}

// TeamsForUser returns the ids of the teams that list userID as a member.
func (s *Store) TeamsForUser(ctx context.Context, userID string) ([]string, error) {
	out := []string{}
	s.h.Read().Range(func(id string, t models.Team) bool {
		if t.HasMember(userID) {
			out = append(out, id)
		}
		return true
	})
	return out, nil
}

func nameTaken(snap *docstore.Snapshot[models.Team], name, exceptID string) bool {
	taken := false
	snap.Range(func(id string, t models.Team) bool {
		if id != exceptID && t.Name == name {
			taken = true
			return false
		}
		return true
	})
	return taken
}

func newID(snap *docstore.Snapshot[models.Team]) string {
	for {
		id := uuid.NewString()
		if !snap.Has(id) {
			return id
		}
	}
}
