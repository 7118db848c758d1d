// internal/app/system/auditlog/event.go
package auditlog

// Categories group events by the collection they touch.
const (
	CategoryUsers  = "users"
	CategoryTeams  = "teams"
	CategoryBoards = "boards"
)

// Event types.
const (
	EventUserCreated = "user_created"
	EventUserUpdated = "user_updated"

	EventTeamCreated        = "team_created"
	EventTeamUpdated        = "team_updated"
	EventTeamMembersAdded   = "team_members_added"
	EventTeamMembersRemoved = "team_members_removed"

	EventBoardCreated = "board_created"
	EventBoardUpdated = "board_updated"
	EventBoardDeleted = "board_deleted"
	EventTaskAdded    = "task_added"
	EventTaskUpdated  = "task_updated"
	EventTaskDeleted  = "task_deleted"
)

// Event is one audited mutation.
type Event struct {
	Category      string
	EventType     string
	EntityID      string // id of the team, user or board that was changed
	TaskID        string // set for task events
	IP            string
	UserAgent     string
	Success       bool
	FailureReason string
	Details       map[string]string
}
