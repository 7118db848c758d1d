// internal/domain/models/team.go
package models

// MaxTeamMembers caps the size of Team.Users.
const MaxTeamMembers = 50

// Team groups users under a single admin.
//
// NOTE:
//   - Admin and Users hold user ids that are never checked against the
//     user registry. They are logical references only.
//   - Users has set semantics; it is stored as a JSON array.
type Team struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Admin        string    `json:"admin"`
	CreationTime Timestamp `json:"creation_time"`
	Users        []string  `json:"users"`
}

// Clone returns a deep copy of t.
func (t Team) Clone() Team {
	out := t
	out.Users = append([]string{}, t.Users...)
	return out
}

// HasMember reports whether userID is in t.Users.
func (t Team) HasMember(userID string) bool {
	for _, u := range t.Users {
		if u == userID {
			return true
		}
	}
	return false
}
