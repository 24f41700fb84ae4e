package domain

import "time"

// Group is a named conversation with a fixed membership.
// Membership is immutable after creation: there are no add/remove
// operations in this design.
type Group struct {
	ID        string
	Name      string
	Members   []string
	CreatedBy string
	CreatedAt time.Time
}

func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
