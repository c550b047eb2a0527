package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anonchatik/backend/internal/models"
)

func TestCanMatch(t *testing.T) {
	male := models.Profile{UserID: 1, Gender: models.GenderMale}
	female := models.Profile{UserID: 2, Gender: models.GenderFemale}
	unset := models.Profile{UserID: 3}
	premiumWantsFemale := models.Profile{
		UserID: 4, Gender: models.GenderMale,
		Premium: true, SearchPreference: models.PreferenceFemale,
	}
	premiumWantsMale := models.Profile{
		UserID: 5, Gender: models.GenderFemale,
		Premium: true, SearchPreference: models.PreferenceMale,
	}
	// Stored preference must be ignored without premium.
	nonPremiumWithStoredPref := models.Profile{
		UserID: 6, Gender: models.GenderMale,
		SearchPreference: models.PreferenceFemale,
	}

	tests := []struct {
		name string
		a, b models.Profile
		want bool
	}{
		{"both non-premium", male, female, true},
		{"same gender non-premium", male, male, true},
		{"unset gender blocks", unset, female, false},
		{"both unset", unset, unset, false},
		{"premium preference satisfied", premiumWantsFemale, female, true},
		{"premium preference violated", premiumWantsFemale, male, false},
		{"two premiums mutually satisfied", premiumWantsFemale, premiumWantsMale, true},
		{"candidate preference also binds", female, premiumWantsFemale, false},
		{"non-premium stored preference ignored", nonPremiumWithStoredPref, male, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMatch(tt.a, tt.b))
			assert.Equal(t, CanMatch(tt.a, tt.b), CanMatch(tt.b, tt.a),
				"CanMatch must be symmetric")
		})
	}
}
