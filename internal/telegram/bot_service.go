// Package telegram receives Telegram updates, routes the four matchmaking
// commands into the engine, relays chat messages between paired users and
// runs the profile/premium wizards.
package telegram

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"anonchatik/backend/internal/config"
	"anonchatik/backend/internal/localization"
	"anonchatik/backend/internal/matchmaking"
	"anonchatik/backend/internal/payment"
	"anonchatik/backend/internal/storage"
)

// BotService is the long-poll update loop plus everything a user can do
// outside an active chat.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Engine    *matchmaking.Engine
	Storage   storage.Storage
	Localizer *localization.Localizer
	Payments  *payment.Client
	Price     string

	mu        sync.Mutex
	invoices  map[int64]int64 // user id -> pending invoice id
	lastCheck map[int64]time.Time
}

func NewBotService(bot *tgbotapi.BotAPI, engine *matchmaking.Engine, s storage.Storage,
	l *localization.Localizer, pay *payment.Client, price string) *BotService {
	return &BotService{
		BotAPI:    bot,
		Engine:    engine,
		Storage:   s,
		Localizer: l,
		Payments:  pay,
		Price:     price,
		invoices:  make(map[int64]int64),
		lastCheck: make(map[int64]time.Time),
	}
}

// Run blocks consuming Telegram updates until the updates channel closes.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = config.UpdateTimeout
	updates := s.BotAPI.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.Message != nil:
			s.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			s.handleCallbackQuery(update.CallbackQuery)
		}
	}
}

// lang returns the user's language, defaulting to Russian like the
// original bot did.
func (s *BotService) lang(userID int64) string {
	if p, err := s.Storage.GetProfile(userID); err == nil && p.Language != "" {
		return p.Language
	}
	return "ru"
}

func (s *BotService) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send message to %d: %v", chatID, err)
	}
}

func (s *BotService) sendWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send message to %d: %v", chatID, err)
	}
}

func (s *BotService) handleMessage(msg *tgbotapi.Message) {
	userID := msg.Chat.ID
	if _, err := s.Storage.EnsureProfile(userID); err != nil {
		log.Printf("ERROR: failed to ensure profile for %d: %v", userID, err)
		return
	}
	if banned, err := s.Storage.IsBanned(userID); err == nil && banned {
		s.send(userID, s.Localizer.GetString(s.lang(userID), "banned"))
		return
	}

	if msg.IsCommand() {
		s.handleCommand(msg)
		return
	}
	s.relay(msg)
}

func (s *BotService) handleCommand(msg *tgbotapi.Message) {
	userID := msg.Chat.ID
	lang := s.lang(userID)

	switch msg.Command() {
	case "start":
		s.send(userID, s.Localizer.GetString(lang, "welcome"))
	case "help":
		s.send(userID, s.Localizer.GetString(lang, "help"))
	case "search":
		s.Engine.BeginSearch(userID)
	case "cancel":
		s.Engine.CancelSearch(userID)
	case "stop":
		s.Engine.StopSession(userID)
	case "next":
		s.Engine.NextSession(userID)
	case "profile":
		s.sendProfileCard(userID)
	case "premium":
		s.sendPremiumMenu(userID)
	case "language":
		s.sendWithMarkup(userID, s.Localizer.GetString(lang, "choose_language"), languageKeyboard())
	default:
		s.send(userID, s.Localizer.GetString(lang, "help"))
	}
}

// relay copies a non-command message to the user's chat partner. Copying
// (rather than forwarding) hides the sender's identity.
func (s *BotService) relay(msg *tgbotapi.Message) {
	userID := msg.Chat.ID
	partnerID, ok := s.Engine.PartnerOf(userID)
	if !ok {
		s.send(userID, s.Localizer.GetString(s.lang(userID), "not_in_chat"))
		return
	}
	copyMsg := tgbotapi.NewCopyMessage(partnerID, userID, msg.MessageID)
	if _, err := s.BotAPI.Send(copyMsg); err != nil {
		log.Printf("ERROR: failed to relay message %d from %d to %d: %v", msg.MessageID, userID, partnerID, err)
		s.send(partnerID, s.Localizer.GetString(s.lang(partnerID), "unsupported_message"))
	}
}

func (s *BotService) handleCallbackQuery(cb *tgbotapi.CallbackQuery) {
	// Ack first so the client stops showing the loading spinner.
	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := s.BotAPI.Request(callback); err != nil {
		log.Printf("WARN: failed to answer callback: %v", err)
	}
	if cb.Message == nil {
		return
	}
	userID := cb.Message.Chat.ID
	lang := s.lang(userID)

	if gender, ok := genderFromCallback(cb.Data); ok {
		if err := s.Storage.SetGender(userID, gender); err != nil {
			log.Printf("ERROR: failed to set gender for %d: %v", userID, err)
			return
		}
		s.send(userID, s.Localizer.GetString(lang, "gender_saved"))
		return
	}

	if pref, ok := preferenceFromCallback(cb.Data); ok {
		err := s.Storage.SetSearchPreference(userID, pref)
		if errors.Is(err, storage.ErrPremiumRequired) {
			s.send(userID, s.Localizer.GetString(lang, "premium_required"))
			return
		}
		if err != nil {
			log.Printf("ERROR: failed to set preference for %d: %v", userID, err)
			return
		}
		s.sendPremiumMenu(userID)
		return
	}

	if strings.HasPrefix(cb.Data, langPrefix) {
		code := strings.TrimPrefix(cb.Data, langPrefix)
		if err := s.Storage.SetLanguage(userID, code); err != nil {
			log.Printf("ERROR: failed to set language for %d: %v", userID, err)
			return
		}
		s.send(userID, s.Localizer.GetString(code, "language_changed"))
		return
	}

	switch cb.Data {
	case callbackBuyPremium:
		s.createPremiumInvoice(userID)
	case callbackCheckPayment:
		s.checkPremiumInvoice(userID)
	}
}

func (s *BotService) sendProfileCard(userID int64) {
	p, err := s.Storage.GetProfile(userID)
	if err != nil {
		log.Printf("ERROR: failed to load profile %d: %v", userID, err)
		return
	}
	lang := s.lang(userID)

	genderLabel := s.Localizer.GetString(lang, "gender_not_set")
	switch p.Gender {
	case "male":
		genderLabel = s.Localizer.GetString(lang, "gender_male")
	case "female":
		genderLabel = s.Localizer.GetString(lang, "gender_female")
	}
	premiumLabel := s.Localizer.GetString(lang, "no")
	if p.Premium {
		premiumLabel = s.Localizer.GetString(lang, "yes")
	}
	prefLabel := s.Localizer.GetString(lang, preferenceLabelKey(p.EffectivePreference()))

	text := s.Localizer.Getf(lang, "profile_view", genderLabel, premiumLabel, prefLabel)
	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if !p.HasGender() {
		msg.ReplyMarkup = genderKeyboard(s.Localizer, lang)
	}
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send profile card to %d: %v", userID, err)
	}
}

func (s *BotService) sendPremiumMenu(userID int64) {
	p, err := s.Storage.GetProfile(userID)
	if err != nil {
		log.Printf("ERROR: failed to load profile %d: %v", userID, err)
		return
	}
	lang := s.lang(userID)

	if p.Premium {
		current := s.Localizer.GetString(lang, preferenceLabelKey(p.EffectivePreference()))
		s.sendWithMarkup(userID,
			s.Localizer.Getf(lang, "premium_settings", current),
			preferenceKeyboard(s.Localizer, lang))
		return
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				s.Localizer.Getf(lang, "premium_buy_button", s.Price), callbackBuyPremium),
		),
	)
	msg := tgbotapi.NewMessage(userID, s.Localizer.GetString(lang, "premium_pitch"))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = markup
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to send premium pitch to %d: %v", userID, err)
	}
}

func (s *BotService) createPremiumInvoice(userID int64) {
	lang := s.lang(userID)
	if !s.Payments.Configured() {
		s.send(userID, s.Localizer.GetString(lang, "pay_unavailable"))
		return
	}
	invoice, err := s.Payments.CreateInvoice(s.Price, "Premium subscription")
	if err != nil {
		log.Printf("ERROR: failed to create invoice for %d: %v", userID, err)
		s.send(userID, s.Localizer.GetString(lang, "pay_error"))
		return
	}

	s.mu.Lock()
	s.invoices[userID] = invoice.InvoiceID
	s.mu.Unlock()

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(s.Localizer.GetString(lang, "pay_button"), invoice.PayURL),
			tgbotapi.NewInlineKeyboardButtonData(s.Localizer.GetString(lang, "pay_check_button"), callbackCheckPayment),
		),
	)
	s.sendWithMarkup(userID, s.Localizer.Getf(lang, "pay_link", s.Price), markup)
}

func (s *BotService) checkPremiumInvoice(userID int64) {
	lang := s.lang(userID)

	s.mu.Lock()
	invoiceID, ok := s.invoices[userID]
	last, checked := s.lastCheck[userID]
	s.mu.Unlock()

	if !ok {
		s.send(userID, s.Localizer.GetString(lang, "pay_no_invoice"))
		return
	}
	if checked && time.Since(last) < config.PaymentCheckCooldown {
		s.send(userID, s.Localizer.GetString(lang, "pay_throttled"))
		return
	}

	status, err := s.Payments.GetInvoiceStatus(invoiceID)

	s.mu.Lock()
	s.lastCheck[userID] = time.Now()
	s.mu.Unlock()

	if err != nil {
		log.Printf("ERROR: failed to check invoice %d for %d: %v", invoiceID, userID, err)
		s.send(userID, s.Localizer.GetString(lang, "pay_error"))
		return
	}

	switch status {
	case payment.StatusPaid:
		if err := s.Storage.SetPremium(userID, true); err != nil {
			log.Printf("ERROR: failed to activate premium for %d: %v", userID, err)
			return
		}
		s.mu.Lock()
		delete(s.invoices, userID)
		delete(s.lastCheck, userID)
		s.mu.Unlock()
		log.Printf("premium activated for user %d", userID)
		s.send(userID, s.Localizer.GetString(lang, "pay_done"))
		s.sendPremiumMenu(userID)
	case payment.StatusExpired:
		s.mu.Lock()
		delete(s.invoices, userID)
		s.mu.Unlock()
		s.send(userID, s.Localizer.GetString(lang, "pay_expired"))
	default:
		s.send(userID, s.Localizer.GetString(lang, "pay_pending"))
	}
}
