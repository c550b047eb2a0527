package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stats is the point-in-time snapshot served by /stats and streamed by /ws.
type Stats struct {
	QueueLen       int       `json:"queue_len"`
	ActiveSessions int       `json:"active_sessions"`
	TotalUsers     int64     `json:"total_users"`
	PremiumUsers   int64     `json:"premium_users"`
	GeneratedAt    time.Time `json:"generated_at"`
}

func (h *Handler) snapshot() Stats {
	s := Stats{
		QueueLen:       h.Engine.QueueLen(),
		ActiveSessions: h.Engine.ActiveSessions(),
		GeneratedAt:    time.Now(),
	}
	var err error
	if s.TotalUsers, err = h.Storage.CountProfiles(); err != nil {
		log.Printf("WARN: failed to count profiles: %v", err)
	}
	if s.PremiumUsers, err = h.Storage.CountPremium(); err != nil {
		log.Printf("WARN: failed to count premium users: %v", err)
	}
	return s
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStats returns the current matchmaking snapshot.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}
