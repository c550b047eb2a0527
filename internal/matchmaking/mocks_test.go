package matchmaking

import (
	"fmt"
	"sync"

	"anonchatik/backend/internal/models"
)

// profileTable is an in-memory ProfileLookup for tests.
type profileTable struct {
	mu       sync.RWMutex
	profiles map[int64]models.Profile
}

func newProfileTable(profiles ...models.Profile) *profileTable {
	t := &profileTable{profiles: make(map[int64]models.Profile)}
	for _, p := range profiles {
		t.profiles[p.UserID] = p
	}
	return t
}

func (t *profileTable) lookup(userID int64) (models.Profile, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.profiles[userID]
	if !ok {
		return models.Profile{}, fmt.Errorf("profile %d not found", userID)
	}
	if !p.Premium {
		p.SearchPreference = models.PreferenceAny
	}
	return p, nil
}

func (t *profileTable) set(p models.Profile) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profiles[p.UserID] = p
}

// notification is one recorded Notify call.
type notification struct {
	UserID    int64
	Event     Event
	PartnerID int64
}

// recordingNotifier captures every Notify call; safe for concurrent use.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *recordingNotifier) Notify(userID int64, ev Event, partnerID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{UserID: userID, Event: ev, PartnerID: partnerID})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, len(n.calls))
	copy(out, n.calls)
	return out
}

// eventsFor returns the events delivered to one user, in order.
func (n *recordingNotifier) eventsFor(userID int64) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Event
	for _, c := range n.calls {
		if c.UserID == userID {
			out = append(out, c.Event)
		}
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = nil
}

// recordingRecorder captures session lifecycle calls; safe for concurrent use.
type recordingRecorder struct {
	mu       sync.Mutex
	started  []string
	ended    []string
	queued   []int64
	dequeued []int64
}

func (r *recordingRecorder) SessionStarted(sessionID string, user1, user2 int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, sessionID)
}

func (r *recordingRecorder) SessionEnded(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, sessionID)
}

func (r *recordingRecorder) UserQueued(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, userID)
}

func (r *recordingRecorder) UserDequeued(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dequeued = append(r.dequeued, userID)
}

// newTestEngine builds an engine over the given profiles with recording
// collaborators.
func newTestEngine(profiles ...models.Profile) (*Engine, *profileTable, *recordingNotifier, *recordingRecorder) {
	table := newProfileTable(profiles...)
	notifier := &recordingNotifier{}
	recorder := &recordingRecorder{}
	engine := NewEngine(table.lookup, notifier, recorder)
	return engine, table, notifier, recorder
}
