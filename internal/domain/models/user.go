// internal/domain/models/user.go
package models

// User is a person who can administer teams and be assigned tasks.
//
// NOTE:
//   - Team membership is not embedded on User. Teams hold the member ids;
//     use the team registry to discover a user's teams.
//   - Name is fixed at creation time.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	CreationTime Timestamp `json:"creation_time"`
}

// Clone returns a copy of u. User has no reference fields.
func (u User) Clone() User {
	return u
}
