package telegram

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"anonchatik/backend/internal/localization"
	"anonchatik/backend/internal/matchmaking"
	"anonchatik/backend/internal/storage"
)

// eventKeys maps engine events to localization keys. Every event the
// engine can emit must be present here.
var eventKeys = map[matchmaking.Event]string{
	matchmaking.EventProfileRequired: "profile_required",
	matchmaking.EventSearchStarted:   "search_started",
	matchmaking.EventStillSearching:  "still_searching",
	matchmaking.EventMatchFound:      "match_found",
	matchmaking.EventSearchCancelled: "search_cancelled",
	matchmaking.EventNotSearching:    "not_searching",
	matchmaking.EventChatEnded:       "chat_ended",
	matchmaking.EventPartnerLeft:     "partner_left",
	matchmaking.EventPartnerSkipped:  "partner_skipped",
	matchmaking.EventNoActiveChat:    "no_active_chat",
}

// Notifier delivers matchmaking events as Telegram messages in the
// recipient's language. It implements matchmaking.Notifier.
type Notifier struct {
	BotAPI    *tgbotapi.BotAPI
	Storage   storage.Storage
	Localizer *localization.Localizer
}

func NewNotifier(bot *tgbotapi.BotAPI, s storage.Storage, l *localization.Localizer) *Notifier {
	return &Notifier{BotAPI: bot, Storage: s, Localizer: l}
}

func (n *Notifier) Notify(userID int64, ev matchmaking.Event, partnerID int64) {
	key, ok := eventKeys[ev]
	if !ok {
		log.Printf("WARN: no message key for event %q", ev)
		return
	}
	lang := "ru"
	if p, err := n.Storage.GetProfile(userID); err == nil && p.Language != "" {
		lang = p.Language
	}

	msg := tgbotapi.NewMessage(userID, n.Localizer.GetString(lang, key))
	if ev == matchmaking.EventProfileRequired {
		msg.ReplyMarkup = genderKeyboard(n.Localizer, lang)
	}
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to notify %d about %s: %v", userID, ev, err)
	}
}
