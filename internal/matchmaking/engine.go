// Package matchmaking implements the anonymous chat core: the waiting
// queue, the symmetric session registry and the engine driving the
// begin-search / cancel / stop / next transitions between them.
//
// All shared state is owned by the Engine and guarded by a single mutex,
// so the find-candidate -> dequeue -> connect sequence is one critical
// section and two concurrent searchers can never claim the same partner.
// Notifier and recorder callbacks do I/O (Telegram sends, database
// writes) and run only after the lock is released, so slow delivery
// never stalls matching.
package matchmaking

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"anonchatik/backend/internal/policy"
)

// pending collects notifier and recorder calls made while the engine
// lock is held; run fires them once the lock is released. Order within
// one entry point is preserved.
type pending []func()

func (p *pending) add(fn func()) { *p = append(*p, fn) }

func (p pending) run() {
	for _, fn := range p {
		fn()
	}
}

// Engine orchestrates the queue, the registry and the compatibility
// policy. It is safe for concurrent use by multiple handler goroutines.
type Engine struct {
	mu       sync.Mutex
	queue    *WaitingQueue
	registry *SessionRegistry
	awaiting map[int64]struct{}

	profiles ProfileLookup
	canMatch MatchFunc
	notifier Notifier
	recorder Recorder
}

// NewEngine wires the engine to its collaborators. The lookup must be
// memory-fast (the storage profile cache in production): it is called
// while the engine lock is held.
func NewEngine(profiles ProfileLookup, notifier Notifier, recorder Recorder) *Engine {
	e := &Engine{
		queue:    NewWaitingQueue(),
		registry: NewSessionRegistry(),
		awaiting: make(map[int64]struct{}),
		profiles: profiles,
		canMatch: policy.CanMatch,
		notifier: notifier,
		recorder: recorder,
	}
	return e
}

// BeginSearch is the begin_search entry point. It gates on a completed
// profile, short-circuits if the user is already queued, and otherwise
// runs one matching attempt: pair with the first compatible waiting user,
// or join the queue. A paired user leaves their current session first.
func (e *Engine) BeginSearch(userID int64) Outcome {
	e.mu.Lock()
	outcome, emit := e.beginSearchLocked(userID)
	e.mu.Unlock()
	emit.run()
	return outcome
}

func (e *Engine) beginSearchLocked(userID int64) (Outcome, pending) {
	var emit pending

	// A paired requester abandons their session before the matching
	// attempt; the partner goes idle, exactly as with /next.
	if partnerID, sessionID, ok := e.registry.Disconnect(userID); ok {
		log.Printf("session %s left by %d for a new search", sessionID, userID)
		emit.add(func() {
			e.recorder.SessionEnded(sessionID)
			e.notifier.Notify(partnerID, EventPartnerSkipped, 0)
		})
	}

	profile, err := e.profiles(userID)
	if err != nil || !profile.HasGender() {
		e.awaiting[userID] = struct{}{}
		emit.add(func() { e.notifier.Notify(userID, EventProfileRequired, 0) })
		return OutcomeProfileRequired, emit
	}
	delete(e.awaiting, userID)

	if e.queue.Contains(userID) {
		emit.add(func() { e.notifier.Notify(userID, EventStillSearching, 0) })
		return OutcomeAlreadySearching, emit
	}

	partnerID, found := e.queue.FindCompatible(userID, e.profiles, e.canMatch)
	if !found {
		e.queue.Add(userID)
		emit.add(func() {
			e.recorder.UserQueued(userID)
			e.notifier.Notify(userID, EventSearchStarted, 0)
		})
		return OutcomeQueued, emit
	}

	// Commit step. The candidate leaves the queue and both sides are
	// connected before the lock is released, so nobody else can claim them.
	e.queue.Remove(partnerID)
	sessionID := uuid.New().String()
	e.registry.Connect(userID, partnerID, sessionID)
	log.Printf("match: %d and %d in session %s", userID, partnerID, sessionID)

	emit.add(func() {
		e.recorder.UserDequeued(partnerID)
		e.recorder.SessionStarted(sessionID, userID, partnerID)
		e.notifier.Notify(userID, EventMatchFound, partnerID)
		e.notifier.Notify(partnerID, EventMatchFound, userID)
	})
	return OutcomeMatched, emit
}

// CancelSearch removes the user from the waiting queue. It also clears a
// pending profile prompt, so an AwaitingProfile user drops back to idle.
func (e *Engine) CancelSearch(userID int64) Outcome {
	e.mu.Lock()
	delete(e.awaiting, userID)
	if !e.queue.Contains(userID) {
		e.mu.Unlock()
		e.notifier.Notify(userID, EventNotSearching, 0)
		return OutcomeNotSearching
	}
	e.queue.Remove(userID)
	e.mu.Unlock()

	e.recorder.UserDequeued(userID)
	e.notifier.Notify(userID, EventSearchCancelled, 0)
	return OutcomeCancelled
}

// StopSession ends the user's active session. Both sides go back to idle.
func (e *Engine) StopSession(userID int64) Outcome {
	e.mu.Lock()
	partnerID, sessionID, ok := e.registry.Disconnect(userID)
	e.mu.Unlock()

	if !ok {
		e.notifier.Notify(userID, EventNoActiveChat, 0)
		return OutcomeNotPaired
	}
	e.recorder.SessionEnded(sessionID)
	log.Printf("session %s ended by %d", sessionID, userID)

	e.notifier.Notify(userID, EventChatEnded, 0)
	e.notifier.Notify(partnerID, EventPartnerLeft, 0)
	return OutcomeStopped
}

// NextSession ends the user's active session and immediately re-runs the
// matching attempt for them. The abandoned partner is notified and stays
// idle; they are never requeued automatically.
func (e *Engine) NextSession(userID int64) Outcome {
	e.mu.Lock()
	if _, ok := e.registry.PartnerOf(userID); !ok {
		e.mu.Unlock()
		e.notifier.Notify(userID, EventNoActiveChat, 0)
		return OutcomeNotPaired
	}
	outcome, emit := e.beginSearchLocked(userID)
	e.mu.Unlock()
	emit.run()
	return outcome
}

// PartnerOf returns the current chat partner of userID, if any. The relay
// layer uses this on every inbound message.
func (e *Engine) PartnerOf(userID int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.PartnerOf(userID)
}

// StateOf reports the user's matchmaking state as a single tagged value.
func (e *Engine) StateOf(userID int64) State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.registry.PartnerOf(userID); ok {
		return StatePaired
	}
	if e.queue.Contains(userID) {
		return StateSearching
	}
	if _, ok := e.awaiting[userID]; ok {
		return StateAwaitingProfile
	}
	return StateIdle
}

// QueueLen returns the number of users currently waiting.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

// ActiveSessions returns the number of live pairings.
func (e *Engine) ActiveSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Len()
}
