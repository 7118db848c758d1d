// internal/domain/models/task.go
package models

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "To-Do"
	StatusInProgress TaskStatus = "In-Progress"
	StatusDone       TaskStatus = "Done"
)

// TaskStatuses lists every valid status in workflow order.
var TaskStatuses = []TaskStatus{StatusToDo, StatusInProgress, StatusDone}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work embedded in a Board.
// Assignee is a user id that is not checked against the user registry.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Assignee     string     `json:"assignee"`
	Status       TaskStatus `json:"status"`
	CreationTime Timestamp  `json:"creation_time"`
}
