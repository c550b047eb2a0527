// Package storage persists user profiles and session history in
// PostgreSQL and keeps fast-changing flags (bans, queue mirror) in Redis.
// Profiles are additionally cached in memory so the matchmaking engine can
// resolve them while holding its lock.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"anonchatik/backend/internal/models"
)

const searchQueueKey = "search_queue"

var ErrPremiumRequired = errors.New("storage: search preference requires premium")

type Storage interface {
	EnsureProfile(userID int64) (models.Profile, error)
	GetProfile(userID int64) (models.Profile, error)
	SetGender(userID int64, gender models.Gender) error
	SetPremium(userID int64, premium bool) error
	SetSearchPreference(userID int64, pref models.SearchPreference) error
	SetLanguage(userID int64, lang string) error

	IsBanned(userID int64) (bool, error)
	SetBanned(userID int64, banned bool) error

	SaveSession(session *models.ChatSession) error
	CloseSession(sessionID string) error
	CloseAllActiveSessions() (int64, error)

	AddToSearchSet(userID int64) error
	RemoveFromSearchSet(userID int64) error
	SearchSetSize() (int64, error)

	CountProfiles() (int64, error)
	CountPremium() (int64, error)
}

// Service is the production Storage backed by gorm and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context

	mu    sync.RWMutex
	cache map[int64]models.Profile
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
		cache: make(map[int64]models.Profile),
	}
}

// WarmCache loads every profile into the in-memory cache. Called once at
// boot so the engine's scan loop never touches the database.
func (s *Service) WarmCache() error {
	var profiles []models.Profile
	if err := s.DB.Find(&profiles).Error; err != nil {
		return fmt.Errorf("warm profile cache: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range profiles {
		s.cache[p.UserID] = p
	}
	log.Printf("profile cache warmed with %d users", len(profiles))
	return nil
}

// EnsureProfile returns the profile for userID, creating an empty one on
// first contact.
func (s *Service) EnsureProfile(userID int64) (models.Profile, error) {
	s.mu.RLock()
	if p, ok := s.cache[userID]; ok {
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	profile := models.Profile{UserID: userID, SearchPreference: models.PreferenceAny, Language: "ru"}
	if err := s.DB.Where("user_id = ?", userID).FirstOrCreate(&profile).Error; err != nil {
		return models.Profile{}, fmt.Errorf("ensure profile %d: %w", userID, err)
	}
	s.mu.Lock()
	s.cache[userID] = profile
	s.mu.Unlock()
	return profile, nil
}

// GetProfile returns the cached profile. The returned value is normalized:
// a non-premium user always reads back PreferenceAny. Cache misses fall
// through to the database.
func (s *Service) GetProfile(userID int64) (models.Profile, error) {
	s.mu.RLock()
	p, ok := s.cache[userID]
	s.mu.RUnlock()
	if !ok {
		err := s.DB.Where("user_id = ?", userID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, fmt.Errorf("profile %d not found", userID)
		}
		if err != nil {
			return models.Profile{}, err
		}
		s.mu.Lock()
		s.cache[userID] = p
		s.mu.Unlock()
	}
	if !p.Premium {
		p.SearchPreference = models.PreferenceAny
	}
	return p, nil
}

func (s *Service) updateProfile(userID int64, updates map[string]interface{}) error {
	err := s.DB.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates).Error
	if err != nil {
		return err
	}
	// Re-read so the cache reflects exactly what the database holds.
	var p models.Profile
	if err := s.DB.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[userID] = p
	s.mu.Unlock()
	return nil
}

func (s *Service) SetGender(userID int64, gender models.Gender) error {
	if _, err := s.EnsureProfile(userID); err != nil {
		return err
	}
	return s.updateProfile(userID, map[string]interface{}{"gender": gender})
}

func (s *Service) SetPremium(userID int64, premium bool) error {
	if _, err := s.EnsureProfile(userID); err != nil {
		return err
	}
	updates := map[string]interface{}{"premium": premium}
	if !premium {
		// Dropping premium also drops the stored preference so stale
		// values can never leak into a later upgrade.
		updates["search_preference"] = models.PreferenceAny
	}
	return s.updateProfile(userID, updates)
}

// SetSearchPreference stores a concrete preference for premium users only.
func (s *Service) SetSearchPreference(userID int64, pref models.SearchPreference) error {
	p, err := s.EnsureProfile(userID)
	if err != nil {
		return err
	}
	if !p.Premium && pref != models.PreferenceAny {
		return ErrPremiumRequired
	}
	return s.updateProfile(userID, map[string]interface{}{"search_preference": pref})
}

func (s *Service) SetLanguage(userID int64, lang string) error {
	if _, err := s.EnsureProfile(userID); err != nil {
		return err
	}
	return s.updateProfile(userID, map[string]interface{}{"language": lang})
}

// IsBanned checks the Redis ban flag first and falls back to the profile.
func (s *Service) IsBanned(userID int64) (bool, error) {
	key := fmt.Sprintf("ban:%d", userID)
	_, err := s.Redis.Get(s.Ctx, key).Result()
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, err
	}
	p, err := s.GetProfile(userID)
	if err != nil {
		return false, nil
	}
	return p.Banned, nil
}

func (s *Service) SetBanned(userID int64, banned bool) error {
	if _, err := s.EnsureProfile(userID); err != nil {
		return err
	}
	key := fmt.Sprintf("ban:%d", userID)
	if banned {
		if err := s.Redis.Set(s.Ctx, key, "1", 0).Err(); err != nil {
			return err
		}
	} else {
		if err := s.Redis.Del(s.Ctx, key).Err(); err != nil {
			return err
		}
	}
	return s.updateProfile(userID, map[string]interface{}{"banned": banned})
}

// SaveSession persists a new pairing record.
func (s *Service) SaveSession(session *models.ChatSession) error {
	return s.DB.Save(session).Error
}

// CloseSession marks the session inactive and stamps its end time.
func (s *Service) CloseSession(sessionID string) error {
	return s.DB.Model(&models.ChatSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  time.Now(),
		}).Error
}

// CloseAllActiveSessions closes rows left active by a previous process.
// Live pairing state is in-memory only, so nothing survives a restart.
func (s *Service) CloseAllActiveSessions() (int64, error) {
	res := s.DB.Model(&models.ChatSession{}).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  time.Now(),
		})
	return res.RowsAffected, res.Error
}

// AddToSearchSet mirrors a queue join into Redis. The mirror is
// write-only observability data; the engine never reads it back.
func (s *Service) AddToSearchSet(userID int64) error {
	return s.Redis.SAdd(s.Ctx, searchQueueKey, userID).Err()
}

func (s *Service) RemoveFromSearchSet(userID int64) error {
	return s.Redis.SRem(s.Ctx, searchQueueKey, userID).Err()
}

func (s *Service) SearchSetSize() (int64, error) {
	return s.Redis.SCard(s.Ctx, searchQueueKey).Result()
}

// ClearSearchSet drops the queue mirror. Called at boot: the in-memory
// queue starts empty, so the mirror must too.
func (s *Service) ClearSearchSet() error {
	return s.Redis.Del(s.Ctx, searchQueueKey).Err()
}

func (s *Service) CountProfiles() (int64, error) {
	var n int64
	err := s.DB.Model(&models.Profile{}).Count(&n).Error
	return n, err
}

func (s *Service) CountPremium() (int64, error) {
	var n int64
	err := s.DB.Model(&models.Profile{}).Where("premium = ?", true).Count(&n).Error
	return n, err
}
