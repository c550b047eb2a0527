package models

import "time"

// Gender is the self-declared gender of a user. The zero value means the
// user has not picked one yet and must be excluded from matching.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// SearchPreference is the gender a user wants to be matched with.
// Only premium users may hold anything other than PreferenceAny.
type SearchPreference string

const (
	PreferenceAny    SearchPreference = "any"
	PreferenceMale   SearchPreference = "male"
	PreferenceFemale SearchPreference = "female"
)

// Profile holds the per-user attributes the matchmaking engine cares about.
// The primary key is the Telegram user id.
type Profile struct {
	UserID           int64            `gorm:"primaryKey" json:"user_id"`
	Gender           Gender           `gorm:"type:text;default:''" json:"gender"`
	Premium          bool             `gorm:"default:false" json:"premium"`
	SearchPreference SearchPreference `gorm:"type:text;default:'any'" json:"search_preference"`
	Language         string           `gorm:"type:text;default:'ru'" json:"language"`
	Banned           bool             `gorm:"default:false" json:"banned"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// EffectivePreference returns the preference the matching policy must honor.
// Non-premium users never constrain their partner's gender, whatever is
// stored for them.
func (p Profile) EffectivePreference() SearchPreference {
	if !p.Premium {
		return PreferenceAny
	}
	if p.SearchPreference == "" {
		return PreferenceAny
	}
	return p.SearchPreference
}

// HasGender reports whether the user finished the profile wizard.
func (p Profile) HasGender() bool {
	return p.Gender != GenderUnset
}

// Matches reports whether g satisfies the preference.
func (pref SearchPreference) Matches(g Gender) bool {
	return pref == PreferenceAny || string(pref) == string(g)
}
