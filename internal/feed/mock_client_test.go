package feed_test

import (
	"resolve/backend/internal/models"
)

type MockClient struct {
	userID      string
	role        models.Role
	closed      bool
	RecvChannel chan models.Notification
}

func newMockClient(userID string, role models.Role) *MockClient {
	return &MockClient{
		userID:      userID,
		role:        role,
		RecvChannel: make(chan models.Notification, 10),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetRole() models.Role {
	return c.role
}

func (c *MockClient) GetSendChannel() chan<- models.Notification {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}
