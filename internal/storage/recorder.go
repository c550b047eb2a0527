package storage

import (
	"log"
	"time"

	"anonchatik/backend/internal/models"
)

// Recorder adapts Storage to the engine's persistence port. Matchmaking
// must never stall on the database or Redis, so every failure here is
// logged and swallowed.
type Recorder struct {
	Store Storage
}

func NewRecorder(s Storage) *Recorder {
	return &Recorder{Store: s}
}

func (r *Recorder) SessionStarted(sessionID string, user1, user2 int64) {
	session := &models.ChatSession{
		SessionID: sessionID,
		User1ID:   user1,
		User2ID:   user2,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	if err := r.Store.SaveSession(session); err != nil {
		log.Printf("ERROR: failed to save session %s: %v", sessionID, err)
	}
}

func (r *Recorder) SessionEnded(sessionID string) {
	if err := r.Store.CloseSession(sessionID); err != nil {
		log.Printf("ERROR: failed to close session %s: %v", sessionID, err)
	}
}

func (r *Recorder) UserQueued(userID int64) {
	if err := r.Store.AddToSearchSet(userID); err != nil {
		log.Printf("WARN: failed to mirror queue join for %d: %v", userID, err)
	}
}

func (r *Recorder) UserDequeued(userID int64) {
	if err := r.Store.RemoveFromSearchSet(userID); err != nil {
		log.Printf("WARN: failed to mirror queue leave for %d: %v", userID, err)
	}
}
