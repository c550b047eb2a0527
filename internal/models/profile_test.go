package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePreference(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    SearchPreference
	}{
		{"non-premium defaults to any", Profile{}, PreferenceAny},
		{"non-premium stored preference ignored", Profile{SearchPreference: PreferenceFemale}, PreferenceAny},
		{"premium keeps preference", Profile{Premium: true, SearchPreference: PreferenceMale}, PreferenceMale},
		{"premium empty preference is any", Profile{Premium: true}, PreferenceAny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.EffectivePreference())
		})
	}
}

func TestHasGender(t *testing.T) {
	assert.False(t, Profile{}.HasGender())
	assert.True(t, Profile{Gender: GenderMale}.HasGender())
	assert.True(t, Profile{Gender: GenderFemale}.HasGender())
}

func TestPreferenceMatches(t *testing.T) {
	assert.True(t, PreferenceAny.Matches(GenderMale))
	assert.True(t, PreferenceAny.Matches(GenderFemale))
	assert.True(t, PreferenceMale.Matches(GenderMale))
	assert.False(t, PreferenceMale.Matches(GenderFemale))
	assert.False(t, PreferenceFemale.Matches(GenderUnset))
}
