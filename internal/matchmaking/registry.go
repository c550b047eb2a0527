package matchmaking

import "fmt"

type pairing struct {
	partnerID int64
	sessionID string
}

// SessionRegistry maps each paired user to their partner and the session
// they share. The mapping is symmetric: if A points at B then B points at
// A with the same session id, and both entries always change together.
// Like the queue it is owned and serialized by the engine.
type SessionRegistry struct {
	pairs map[int64]pairing
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{pairs: make(map[int64]pairing)}
}

// Connect pairs a and b under sessionID. Connecting a user who is already
// paired means the engine's locking discipline is broken, so it panics
// rather than corrupting the mapping.
func (r *SessionRegistry) Connect(a, b int64, sessionID string) {
	if p, ok := r.pairs[a]; ok {
		panic(fmt.Sprintf("matchmaking: user %d is already paired with %d", a, p.partnerID))
	}
	if p, ok := r.pairs[b]; ok {
		panic(fmt.Sprintf("matchmaking: user %d is already paired with %d", b, p.partnerID))
	}
	r.pairs[a] = pairing{partnerID: b, sessionID: sessionID}
	r.pairs[b] = pairing{partnerID: a, sessionID: sessionID}
}

// PartnerOf returns the partner of userID, if any.
func (r *SessionRegistry) PartnerOf(userID int64) (int64, bool) {
	p, ok := r.pairs[userID]
	return p.partnerID, ok
}

// SessionOf returns the session id userID participates in, if any.
func (r *SessionRegistry) SessionOf(userID int64) (string, bool) {
	p, ok := r.pairs[userID]
	return p.sessionID, ok
}

// Disconnect removes the pairing of userID from both sides and returns the
// former partner and session id. Disconnecting an unpaired user is a no-op.
func (r *SessionRegistry) Disconnect(userID int64) (partnerID int64, sessionID string, ok bool) {
	p, ok := r.pairs[userID]
	if !ok {
		return 0, "", false
	}
	delete(r.pairs, userID)
	delete(r.pairs, p.partnerID)
	return p.partnerID, p.sessionID, true
}

// Len returns the number of active sessions.
func (r *SessionRegistry) Len() int {
	return len(r.pairs) / 2
}
