package matchmaking

import "anonchatik/backend/internal/models"

// ProfileLookup resolves a user id to their profile. The engine passes the
// storage cache here, so lookups are memory-fast and safe to run while the
// engine lock is held.
type ProfileLookup func(userID int64) (models.Profile, error)

// MatchFunc is the compatibility predicate (policy.CanMatch in production).
type MatchFunc func(a, b models.Profile) bool

// WaitingQueue is the set of users currently looking for a partner.
// Membership is unique and the scan order is insertion order, so candidate
// selection is deterministic. The queue itself is not goroutine safe: the
// engine owns it and serializes access behind its own lock.
type WaitingQueue struct {
	order   []int64
	members map[int64]struct{}
}

func NewWaitingQueue() *WaitingQueue {
	return &WaitingQueue{members: make(map[int64]struct{})}
}

// Add enqueues the user. Adding a user who is already waiting is a no-op.
func (q *WaitingQueue) Add(userID int64) {
	if _, ok := q.members[userID]; ok {
		return
	}
	q.members[userID] = struct{}{}
	q.order = append(q.order, userID)
}

// Remove dequeues the user if present; removing an absent user is a no-op.
func (q *WaitingQueue) Remove(userID int64) {
	if _, ok := q.members[userID]; !ok {
		return
	}
	delete(q.members, userID)
	for i, id := range q.order {
		if id == userID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

func (q *WaitingQueue) Contains(userID int64) bool {
	_, ok := q.members[userID]
	return ok
}

func (q *WaitingQueue) Len() int {
	return len(q.order)
}

// Members returns the waiting user ids in insertion order.
func (q *WaitingQueue) Members() []int64 {
	out := make([]int64, len(q.order))
	copy(out, q.order)
	return out
}

// FindCompatible scans the queue in insertion order and returns the first
// member compatible with userID, skipping userID itself. It never mutates
// the queue: removing the returned candidate is the caller's commit step,
// which keeps find and commit inside one critical section at the engine.
//
// An empty result is a normal outcome, not an error. Candidates whose
// profile cannot be resolved are skipped.
func (q *WaitingQueue) FindCompatible(userID int64, lookup ProfileLookup, canMatch MatchFunc) (int64, bool) {
	self, err := lookup(userID)
	if err != nil {
		return 0, false
	}
	for _, candidateID := range q.order {
		if candidateID == userID {
			continue
		}
		candidate, err := lookup(candidateID)
		if err != nil {
			continue
		}
		if canMatch(self, candidate) {
			return candidateID, true
		}
	}
	return 0, false
}
