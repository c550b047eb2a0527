// Package policy implements the compatibility rule deciding whether two
// profiles may be paired. It is a pure predicate with no side effects:
// everything stateful (queue scans, commits) lives in the matchmaking engine.
package policy

import "anonchatik/backend/internal/models"

// CanMatch reports whether a and b may chat with each other.
//
// Both users must have picked a gender. A premium user with a concrete
// search preference only accepts partners of that gender; everyone else
// accepts anyone. Non-premium users impose no constraint regardless of
// what preference happens to be stored for them.
//
// The rule is symmetric: CanMatch(a, b) == CanMatch(b, a).
func CanMatch(a, b models.Profile) bool {
	if !a.HasGender() || !b.HasGender() {
		return false
	}
	if !a.EffectivePreference().Matches(b.Gender) {
		return false
	}
	if !b.EffectivePreference().Matches(a.Gender) {
		return false
	}
	return true
}
