// Package domain contains core concepts of the relay system.
// This file defines User entities and the authenticated identity
// attached to a live session. No runtime, network, or UI logic
// should be added here.
package domain

import "time"

// User is a registered account as stored by the user repository.
type User struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// Identity is the authenticated identity bound to a session.
// It is immutable for the lifetime of the binding.
type Identity struct {
	UserID      string
	DisplayName string
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, DisplayName: u.DisplayName}
}
