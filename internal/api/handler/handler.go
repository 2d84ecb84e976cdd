package handler

import (
	"aichat/backend/internal/chathub"
	"aichat/backend/internal/config"
	"aichat/backend/internal/storage"
)

// Handler carries the dependencies of the HTTP layer.
type Handler struct {
	Storage storage.Storage
	Hub     *chathub.Hub
	Events  chathub.EventHandler
	Cfg     config.Config
}

func NewHandler(s storage.Storage, hub *chathub.Hub, events chathub.EventHandler, cfg config.Config) *Handler {
	return &Handler{
		Storage: s,
		Hub:     hub,
		Events:  events,
		Cfg:     cfg,
	}
}
