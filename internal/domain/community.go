package domain

import "time"

// Community groups houses under a set of administrators.
type Community struct {
	ID        string
	Name      string
	District  string
	AdminIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAdmin reports whether userID administers the community.
func (c *Community) HasAdmin(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
