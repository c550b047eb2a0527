package matchmaking

// Event identifies a state transition the engine reports to a user.
// Every entry point produces exactly one event for the acting user and,
// when a partner is affected, exactly one for the partner.
type Event string

const (
	// EventProfileRequired: begin-search refused, gender not chosen yet.
	EventProfileRequired Event = "profile_required"
	// EventSearchStarted: user entered the waiting queue.
	EventSearchStarted Event = "search_started"
	// EventStillSearching: begin-search while already queued; nothing changed.
	EventStillSearching Event = "still_searching"
	// EventMatchFound: user got paired (sent to both sides).
	EventMatchFound Event = "match_found"
	// EventSearchCancelled: user left the waiting queue.
	EventSearchCancelled Event = "search_cancelled"
	// EventNotSearching: cancel while not queued; nothing changed.
	EventNotSearching Event = "not_searching"
	// EventChatEnded: user closed their own session.
	EventChatEnded Event = "chat_ended"
	// EventPartnerLeft: the partner closed the session.
	EventPartnerLeft Event = "partner_left"
	// EventPartnerSkipped: the partner moved on to a new search.
	EventPartnerSkipped Event = "partner_skipped"
	// EventNoActiveChat: stop/next while not paired; nothing changed.
	EventNoActiveChat Event = "no_active_chat"
)

// Notifier delivers transition events to users. The Telegram layer
// implements it; tests use a recording stub. PartnerID is only meaningful
// for EventMatchFound and is zero otherwise.
type Notifier interface {
	Notify(userID int64, ev Event, partnerID int64)
}

// Recorder receives queue and session lifecycle changes for persistence
// and observability. Implementations must never block matchmaking on I/O
// failures; errors are theirs to log.
type Recorder interface {
	SessionStarted(sessionID string, user1, user2 int64)
	SessionEnded(sessionID string)
	UserQueued(userID int64)
	UserDequeued(userID int64)
}

// Outcome is what an engine entry point did. Expected "wrong state" cases
// (already searching, no active chat) are ordinary outcomes, not errors.
type Outcome string

const (
	OutcomeProfileRequired  Outcome = "profile_required"
	OutcomeAlreadySearching Outcome = "already_searching"
	OutcomeMatched          Outcome = "matched"
	OutcomeQueued           Outcome = "queued"
	OutcomeCancelled        Outcome = "cancelled"
	OutcomeNotSearching     Outcome = "not_searching"
	OutcomeStopped          Outcome = "stopped"
	OutcomeNotPaired        Outcome = "not_paired"
)

// State is the matchmaking state of a single user.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingProfile State = "awaiting_profile"
	StateSearching       State = "searching"
	StatePaired          State = "paired"
)
