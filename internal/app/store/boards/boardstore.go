// internal/app/store/boards/boardstore.go
package boardstore

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

const (
	boardKind = "board"
	taskKind  = "task"
)

var (
	// ErrDuplicateName is returned when another board in the same team scope
	// already has the name.
	ErrDuplicateName = apperr.Invalid("name", "Board name must be unique within a team.")

	// ErrDuplicateTaskTitle is returned when another task on the board
	// already has the title.
	ErrDuplicateTaskTitle = apperr.Invalid("title", "Task title must be unique within a board.")
)

// NewBoard is the input to CreateBoard.
type NewBoard struct {
	Name        string `json:"name" validate:"required,max=64" label:"Name"`
	Description string `json:"description" validate:"max=128" label:"Description"`
	TeamID      string `json:"team_id"`
}

// BoardUpdate carries the fields to change. Nil fields are left alone.
type BoardUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitnil,min=1,max=64" label:"Name"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=128" label:"Description"`
	TeamID      *string `json:"team_id,omitempty"`
}

// NewTask is the input to AddTask.
type NewTask struct {
	Title       string            `json:"title" validate:"required,max=128" label:"Title"`
	Description string            `json:"description"`
	Assignee    string            `json:"assignee"`
	Status      models.TaskStatus `json:"status" validate:"taskstatus" label:"Status"`
}

// TaskUpdate carries the fields to change. Nil fields are left alone.
type TaskUpdate struct {
	Title       *string            `json:"title,omitempty" validate:"omitnil,min=1,max=128" label:"Title"`
	Description *string            `json:"description,omitempty"`
	Assignee    *string            `json:"assignee,omitempty"`
	Status      *models.TaskStatus `json:"status,omitempty" validate:"omitnil,taskstatus" label:"Status"`
}

type Store struct {
	h   *docstore.Handle[models.Board]
	log *zap.Logger
}

// New opens the board collection at path.
func New(reg *docstore.Registry, path string, logger *zap.Logger) (*Store, error) {
	h, err := docstore.Open[models.Board](reg, path)
	if err != nil {
		return nil, fmt.Errorf("open boards: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{h: h, log: logger}, nil
}

// Path returns the collection file.
func (s *Store) Path() string { return s.h.Path() }

// CreateBoard validates in and stores a new board with no tasks.
func (s *Store) CreateBoard(ctx context.Context, in NewBoard) (models.Board, error) {
	if err := inputval.Validate(in).Err(); err != nil {
		return models.Board{}, err
	}
	var b models.Board
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Board]) error {
		if nameTaken(snap, in.TeamID, in.Name, "") {
			return ErrDuplicateName
		}
		b = models.Board{
			ID:           newBoardID(snap),
			Name:         in.Name,
			Description:  in.Description,
			TeamID:       in.TeamID,
			CreationTime: models.Now(),
			Tasks:        []models.Task{},
		}
		snap.Put(b.ID, b)
		return nil
	})
	if err != nil {
		return models.Board{}, err
	}
	s.log.Debug("board created", zap.String("board_id", b.ID), zap.String("name", b.Name), zap.String("team_id", b.TeamID))
	return b.Clone(), nil
}

// ListBoards returns the boards of teamID, or every board when teamID is
// empty.
func (s *Store) ListBoards(ctx context.Context, teamID string) ([]models.Board, error) {
	all := s.h.Read().All()
	if teamID == "" {
		return all, nil
	}
	out := make([]models.Board, 0, len(all))
	for _, b := range all {
		if b.TeamID == teamID {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetBoard returns the board with id, tasks included.
func (s *Store) GetBoard(ctx context.Context, id string) (models.Board, error) {
	b, ok := s.h.Read().Get(id)
	if !ok {
		return models.Board{}, apperr.NotFound(boardKind, id)
	}
	return b, nil
}

// UpdateBoard applies upd to the board with id. Moving a board to another
// team is subject to the same name rule as creating it there.
func (s *Store) UpdateBoard(ctx context.Context, id string, upd BoardUpdate) (models.Board, error) {
	var out models.Board
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Board]) error {
		b, ok := snap.Get(id)
		if !ok {
			return apperr.NotFound(boardKind, id)
		}
		if err := inputval.Validate(upd).Err(); err != nil {
			return err
		}
		if upd.Name != nil {
			b.Name = *upd.Name
		}
		if upd.Description != nil {
			b.Description = *upd.Description
		}
		if upd.TeamID != nil {
			b.TeamID = *upd.TeamID
		}
		if nameTaken(snap, b.TeamID, b.Name, id) {
			return ErrDuplicateName
		}
		snap.Put(id, b)
		out = b.Clone()
		return nil
	})
	if err != nil {
		return models.Board{}, err
	}
	s.log.Debug("board updated", zap.String("board_id", id))
	return out, nil
}

// DeleteBoard removes the board and all of its tasks.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Board]) error {
		if !snap.Delete(id) {
			return apperr.NotFound(boardKind, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("board deleted", zap.String("board_id", id))
	return nil
}

// AddTask appends a new task to the board. The status must be given
// explicitly.
func (s *Store) AddTask(ctx context.Context, boardID string, in NewTask) (models.Task, error) {
	var t models.Task
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Board]) error {
		b, ok := snap.Get(boardID)
		if !ok {
			return apperr.NotFound(boardKind, boardID)
		}
		if err := inputval.Validate(in).Err(); err != nil {
			return err
		}
		if titleTaken(b, in.Title, "") {
			return ErrDuplicateTaskTitle
		}
		t = models.Task{
			ID:           newTaskID(b),
			Title:        in.Title,
			Description:  in.Description,
			Assignee:     in.Assignee,
			Status:       in.Status,
			CreationTime: models.Now(),
		}
		b.Tasks = append(b.Tasks, t)
		snap.Put(boardID, b)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	s.log.Debug("task added", zap.String("board_id", boardID), zap.String("task_id", t.ID))
	return t, nil
}

// GetTask returns one task of the board.
func (s *Store) GetTask(ctx context.Context, boardID, taskID string) (models.Task, error) {
	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return models.Task{}, err
	}
	i := b.TaskIndex(taskID)
	if i < 0 {
		return models.Task{}, apperr.NotFound(taskKind, taskID)
	}
	return b.Tasks[i], nil
}

// UpdateTask applies upd to one task of the board.
func (s *Store) UpdateTask(ctx context.Context, boardID, taskID string, upd TaskUpdate) (models.Task, error) {
	var out models.Task
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Board]) error {
		b, ok := snap.Get(boardID)
		if !ok {
			return apperr.NotFound(boardKind, boardID)
		}
		i := b.TaskIndex(taskID)
		if i < 0 {
			return apperr.NotFound(taskKind, taskID)
		}
		if err := inputval.Validate(upd).Err(); err != nil {
			return err
		}
		t := b.Tasks[i]
		if upd.Title != nil {
			if titleTaken(b, *upd.Title, taskID) {
				return ErrDuplicateTaskTitle
			}
			t.Title = *upd.Title
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Assignee != nil {
			t.Assignee = *upd.Assignee
		}
		if upd.Status != nil {
			t.Status = *upd.Status
		}
		b.Tasks[i] = t
		snap.Put(boardID, b)
		out = t
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	s.log.Debug("task updated", zap.String("board_id", boardID), zap.String("task_id", taskID))
	return out, nil
}

// DeleteTask removes one task from the board. Deleting a task that is not
// on the board succeeds without changing anything.
func (s *Store) DeleteTask(ctx context.Context, boardID, taskID string) error {
	removed := false
	err := s.h.Update(ctx, func(snap *docstore.Snapshot[models.Board]) error {
		b, ok := snap.Get(boardID)
		if !ok {
			return apperr.NotFound(boardKind, boardID)
		}
		i := b.TaskIndex(taskID)
		if i < 0 {
			return docstore.ErrNoChange
		}
		b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
		snap.Put(boardID, b)
		removed = true
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("task deleted", zap.String("board_id", boardID), zap.String("task_id", taskID), zap.Bool("removed", removed))
	return nil
}

// ListTasks returns the tasks of the board in insertion order.
func (s *Store) ListTasks(ctx context.Context, boardID string) ([]models.Task, error) {
	b, err := s.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return b.Tasks, nil
}

func nameTaken(snap *docstore.Snapshot[models.Board], teamID, name, exceptID string) bool {
	taken := false
	snap.Range(func(id string, b models.Board) bool {
		if id != exceptID && b.TeamID == teamID && b.Name == name {
			taken = true
			return false
		}
		return true
	})
	return taken
}

func titleTaken(b models.Board, title, exceptID string) bool {
	for _, t := range b.Tasks {
		if t.ID != exceptID && t.Title == title {
			return true
		}
	}
	return false
}

func newBoardID(snap *docstore.Snapshot[models.Board]) string {
	for {
		id := uuid.NewString()
		if !snap.Has(id) {
			return id
		}
	}
}

func newTaskID(b models.Board) string {
	for {
		id := uuid.NewString()
		if b.TaskIndex(id) < 0 {
			return id
		}
	}
}
