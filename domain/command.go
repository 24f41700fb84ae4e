package domain

import "time"

// Commands are send/create intents as they reach the router, after
// boundary validation. From is always taken from the registered
// session binding, never from the wire payload.

type SendDirectCommand struct {
	From      string
	To        string
	Content   string
	CreatedAt time.Time
}

type SendGroupCommand struct {
	From      string
	Group     string
	Content   string
	CreatedAt time.Time
}

type CreateGroupCommand struct {
	Name      string
	Members   []string
	CreatedBy string
}
