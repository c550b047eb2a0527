package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"anonchatik/backend/internal/localization"
	"anonchatik/backend/internal/models"
)

// Callback data values understood by the bot service.
const (
	callbackGenderMale   = "gender_male"
	callbackGenderFemale = "gender_female"
	callbackPrefAny      = "search_pref_any"
	callbackPrefMale     = "search_pref_male"
	callbackPrefFemale   = "search_pref_female"
	callbackBuyPremium   = "buy_premium"
	callbackCheckPayment = "check_payment"
	langPrefix           = "set_lang_"
)

func genderKeyboard(l *localization.Localizer, lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.GetString(lang, "gender_male"), callbackGenderMale),
			tgbotapi.NewInlineKeyboardButtonData(l.GetString(lang, "gender_female"), callbackGenderFemale),
		),
	)
}

func preferenceKeyboard(l *localization.Localizer, lang string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.GetString(lang, "pref_any"), callbackPrefAny),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.GetString(lang, "pref_male"), callbackPrefMale),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.GetString(lang, "pref_female"), callbackPrefFemale),
		),
	)
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English", langPrefix+"en"),
			tgbotapi.NewInlineKeyboardButtonData("Русский", langPrefix+"ru"),
		),
	)
}

// preferenceFromCallback maps a search_pref_* callback to the preference
// it selects.
func preferenceFromCallback(data string) (models.SearchPreference, bool) {
	switch data {
	case callbackPrefAny:
		return models.PreferenceAny, true
	case callbackPrefMale:
		return models.PreferenceMale, true
	case callbackPrefFemale:
		return models.PreferenceFemale, true
	}
	return "", false
}

// genderFromCallback maps a gender_* callback to the gender it selects.
func genderFromCallback(data string) (models.Gender, bool) {
	switch data {
	case callbackGenderMale:
		return models.GenderMale, true
	case callbackGenderFemale:
		return models.GenderFemale, true
	}
	return models.GenderUnset, false
}

// preferenceLabelKey returns the localization key describing a preference
// in the profile card and premium settings.
func preferenceLabelKey(pref models.SearchPreference) string {
	switch pref {
	case models.PreferenceMale:
		return "pref_male"
	case models.PreferenceFemale:
		return "pref_female"
	default:
		return "pref_any"
	}
}
