// Package handler exposes the operator HTTP API: health, matchmaking
// stats and a live stats stream over WebSocket.
package handler

import (
	"anonchatik/backend/internal/matchmaking"
	"anonchatik/backend/internal/storage"
)

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	Engine  *matchmaking.Engine
	Storage storage.Storage
	Secret  string
}

func NewHandler(engine *matchmaking.Engine, s storage.Storage, secret string) *Handler {
	return &Handler{Engine: engine, Storage: s, Secret: secret}
}
