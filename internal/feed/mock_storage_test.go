package feed_test

import (
	"resolve/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) MarkEmailVerified(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) SaveProfile(profile *models.Profile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockStorage) GetProfile(userID string) (*models.Profile, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockStorage) GetRole(userID string) (models.Role, error) {
	args := m.Called(userID)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockStorage) GrantRole(userID string, role models.Role) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *MockStorage) CreateComplaint(c *models.Complaint) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintByID(id string) (*models.Complaint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaints() ([]models.Complaint, error) {
	args := m.Called()
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) ListComplaintsForStudent(studentID string) ([]models.Complaint, error) {
	args := m.Called(studentID)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(id string, next models.Status) (*models.Complaint, error) {
	args := m.Called(id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockStorage) CreateComment(c *models.Comment) error {
	args := m.Called(c)
	return args.Error(0)
}

func (m *MockStorage) ListComments(complaintID string) ([]models.Comment, error) {
	args := m.Called(complaintID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockStorage) CreateAttachment(a *models.Attachment) error {
	args := m.Called(a)
	return args.Error(0)
}

func (m *MockStorage) ListAttachments(complaintID string) ([]models.Attachment, error) {
	args := m.Called(complaintID)
	return args.Get(0).([]models.Attachment), args.Error(1)
}

func (m *MockStorage) CreateRating(r *models.Rating) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockStorage) GetRating(complaintID, studentID string) (*models.Rating, error) {
	args := m.Called(complaintID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockStorage) LogSecurityEvent(l *models.SecurityLog) error {
	args := m.Called(l)
	return args.Error(0)
}

func (m *MockStorage) ListSecurityLogs(limit int) ([]models.SecurityLog, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.SecurityLog), args.Error(1)
}

func (m *MockStorage) ListSuspiciousActivities(limit int) ([]models.SuspiciousActivity, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.SuspiciousActivity), args.Error(1)
}

func (m *MockStorage) ResolveSuspiciousActivity(id, adminID string) error {
	args := m.Called(id, adminID)
	return args.Error(0)
}

func (m *MockStorage) RunSuspiciousActivityDetection() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStorage) RegisterFailedLogin(email string) (int64, error) {
	args := m.Called(email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) FailedLoginCount(email string) (int64, error) {
	args := m.Called(email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) ClearFailedLogins(email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockStorage) PublishChange(table string, ev models.ChangeEvent) error {
	args := m.Called(table, ev)
	return args.Error(0)
}

func (m *MockStorage) SubscribeChanges(tables ...string) *redis.PubSub {
	args := m.Called(tables)
	return args.Get(0).(*redis.PubSub)
}
