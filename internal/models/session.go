package models

import "time"

// ChatSession is the persisted record of one pairing between two users.
// It is history only: the live pairing state lives in the matchmaking
// engine and dies with the process, so rows left active at boot are closed.
type ChatSession struct {
	// SessionID is the unique identifier of the pairing (UUID).
	SessionID string `gorm:"primaryKey"`
	// User1ID is the user whose search triggered the match.
	User1ID int64 `gorm:"index"`
	// User2ID is the user taken out of the waiting queue.
	User2ID int64 `gorm:"index"`
	// IsActive indicates whether the session is still relaying messages.
	IsActive bool
	// StartedAt is when the two users were connected.
	StartedAt time.Time
	// EndedAt is when either side stopped or skipped.
	EndedAt time.Time
}
