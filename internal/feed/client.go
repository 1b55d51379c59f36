package feed

import "resolve/backend/internal/models"

// Client is the interface for any dashboard connection the hub manages.
// It abstracts the transport so the hub can push notifications without
// knowing whether the other end is a websocket or something else.
type Client interface {
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string
	// GetRole returns the viewer role the connection was opened with.
	GetRole() models.Role

	// GetSendChannel returns the channel the hub pushes notifications
	// into. It is a send-only channel.
	GetSendChannel() chan<- models.Notification

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and associated channels.
	Close()
}
