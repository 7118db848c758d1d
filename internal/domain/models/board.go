// internal/domain/models/board.go
package models

// Board is a named collection of tasks. A board owns its tasks; tasks have
// no identity outside of the board that holds them.
//
// TeamID is optional. Board names are unique among boards that share the
// same TeamID (boards without a team share one scope).
type Board struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	TeamID       string    `json:"team_id,omitempty"`
	CreationTime Timestamp `json:"creation_time"`
	Tasks        []Task    `json:"tasks"`
}

// Clone returns a deep copy of b, including its tasks.
func (b Board) Clone() Board {
	out := b
	out.Tasks = append([]Task{}, b.Tasks...)
	return out
}

// TaskIndex returns the position of the task with the given id, or -1.
func (b Board) TaskIndex(taskID string) int {
	for i, t := range b.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}
