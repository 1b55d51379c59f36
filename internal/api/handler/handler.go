package handler

import (
	"resolve/backend/internal/ai"
	"resolve/backend/internal/alerts"
	"resolve/backend/internal/analytics"
	"resolve/backend/internal/feed"
	"resolve/backend/internal/files"
	"resolve/backend/internal/security"
	"resolve/backend/internal/storage"
)

// Handler bundles the dependencies the HTTP layer needs.
type Handler struct {
	Storage   storage.Storage
	Hub       *feed.Hub
	AI        *ai.Gateway
	Files     *files.Store
	Monitor   *security.Monitor
	Analytics *analytics.Dashboard
	Alerter   *alerts.Alerter // nil when Telegram is not configured
	JWTSecret []byte
}

func NewHandler(s storage.Storage, hub *feed.Hub, gateway *ai.Gateway, store *files.Store, monitor *security.Monitor, dashboard *analytics.Dashboard, secret []byte) *Handler {
	return &Handler{
		Storage:   s,
		Hub:       hub,
		AI:        gateway,
		Files:     store,
		Monitor:   monitor,
		Analytics: dashboard,
		JWTSecret: secret,
	}
}
