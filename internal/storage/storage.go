package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"resolve/backend/internal/config"
	"resolve/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrAlreadyRated is returned when a student tries to rate the same
// complaint twice. Ratings are write-once.
var ErrAlreadyRated = errors.New("complaint already rated")

// ChangeChannel returns the Redis pub/sub channel carrying row changes for a
// table.
func ChangeChannel(table string) string {
	return "changes:" + table
}

type Storage interface {
	// Accounts and profiles
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	MarkEmailVerified(userID string) error
	SaveProfile(profile *models.Profile) error
	GetProfile(userID string) (*models.Profile, error)
	GetRole(userID string) (models.Role, error)
	GrantRole(userID string, role models.Role) error

	// Complaints
	CreateComplaint(c *models.Complaint) error
	GetComplaintByID(id string) (*models.Complaint, error)
	ListComplaints() ([]models.Complaint, error)
	ListComplaintsForStudent(studentID string) ([]models.Complaint, error)
	UpdateComplaintStatus(id string, next models.Status) (*models.Complaint, error)

	// Comments, attachments, ratings
	CreateComment(c *models.Comment) error
	ListComments(complaintID string) ([]models.Comment, error)
	CreateAttachment(a *models.Attachment) error
	ListAttachments(complaintID string) ([]models.Attachment, error)
	CreateRating(r *models.Rating) error
	GetRating(complaintID, studentID string) (*models.Rating, error)

	// Security surface
	LogSecurityEvent(l *models.SecurityLog) error
	ListSecurityLogs(limit int) ([]models.SecurityLog, error)
	ListSuspiciousActivities(limit int) ([]models.SuspiciousActivity, error)
	ResolveSuspiciousActivity(id, adminID string) error
	RunSuspiciousActivityDetection() error

	// Login throttling
	RegisterFailedLogin(email string) (int64, error)
	FailedLoginCount(email string) (int64, error)
	ClearFailedLogins(email string) error

	// Change feed
	PublishChange(table string, ev models.ChangeEvent) error
	SubscribeChanges(tables ...string) *redis.PubSub
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Accounts and profiles ---

func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) MarkEmailVerified(userID string) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("email_verified_at", gorm.Expr("NOW()")).Error
}

func (s *Service) SaveProfile(profile *models.Profile) error {
	return s.DB.Save(profile).Error
}

func (s *Service) GetProfile(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetRole returns the role granted to the user, defaulting to student when
// no explicit grant exists.
func (s *Service) GetRole(userID string) (models.Role, error) {
	var ur models.UserRole
	err := s.DB.Where("user_id = ?", userID).First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleStudent, nil
	}
	if err != nil {
		return "", err
	}
	return ur.Role, nil
}

func (s *Service) GrantRole(userID string, role models.Role) error {
	var ur models.UserRole
	err := s.DB.Where("user_id = ?", userID).First(&ur).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.DB.Create(&models.UserRole{UserID: userID, Role: role}).Error
	}
	if err != nil {
		return err
	}
	ur.Role = role
	return s.DB.Save(&ur).Error
}

// --- Complaints ---

// CreateComplaint persists the complaint and publishes the insert to the
// change feed. A publish failure is logged but does not fail the write: the
// row is committed and views recover on their next full fetch.
func (s *Service) CreateComplaint(c *models.Complaint) error {
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint %q: %v", c.Title, err)
		return err
	}
	s.publishRow("complaints", models.EventInsert, nil, c)
	return nil
}

func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComplaints returns all complaints for the admin view, highest priority
// first, newest first within equal priority.
func (s *Service) ListComplaints() ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Order("priority_score desc").
		Order("created_at desc").
		Find(&complaints).Error
	return complaints, err
}

func (s *Service) ListComplaintsForStudent(studentID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&complaints).Error
	return complaints, err
}

// UpdateComplaintStatus applies a status transition, maintains resolved_at,
// and publishes the update with both the old and new row snapshots.
func (s *Service) UpdateComplaintStatus(id string, next models.Status) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.DB.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}

	old := c
	c.SetStatus(next, time.Now())
	if err := s.DB.Save(&c).Error; err != nil {
		log.Printf("ERROR: Failed to update status for complaint %s: %v", id, err)
		return nil, err
	}

	s.publishRow("complaints", models.EventUpdate, &old, &c)
	return &c, nil
}

// --- Comments, attachments, ratings ---

func (s *Service) CreateComment(c *models.Comment) error {
	if err := s.DB.Create(c).Error; err != nil {
		log.Printf("ERROR: Failed to save comment for complaint %s: %v", c.ComplaintID, err)
		return err
	}
	s.publishRow("comments", models.EventInsert, nil, c)
	return nil
}

func (s *Service) ListComments(complaintID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

func (s *Service) CreateAttachment(a *models.Attachment) error {
	return s.DB.Create(a).Error
}

func (s *Service) ListAttachments(complaintID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := s.DB.Where("complaint_id = ?", complaintID).
		Order("created_at asc").
		Find(&attachments).Error
	return attachments, err
}

// CreateRating enforces the write-once rule before inserting.
func (s *Service) CreateRating(r *models.Rating) error {
	existing, err := s.GetRating(r.ComplaintID, r.StudentID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyRated
	}
	return s.DB.Create(r).Error
}

func (s *Service) GetRating(complaintID, studentID string) (*models.Rating, error) {
	var rating models.Rating
	err := s.DB.Where("complaint_id = ? AND student_id = ?", complaintID, studentID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// --- Security surface ---

func (s *Service) LogSecurityEvent(l *models.SecurityLog) error {
	if err := s.DB.Create(l).Error; err != nil {
		log.Printf("ERROR: Failed to write security log %s: %v", l.EventType, err)
		return err
	}
	return nil
}

func (s *Service) ListSecurityLogs(limit int) ([]models.SecurityLog, error) {
	var logs []models.SecurityLog
	err := s.DB.Order("created_at desc").Limit(limit).Find(&logs).Error
	return logs, err
}

func (s *Service) ListSuspiciousActivities(limit int) ([]models.SuspiciousActivity, error) {
	var activities []models.SuspiciousActivity
	err := s.DB.Order("detection_time desc").Limit(limit).Find(&activities).Error
	return activities, err
}

func (s *Service) ResolveSuspiciousActivity(id, adminID string) error {
	return s.DB.Model(&models.SuspiciousActivity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resolved":    true,
			"resolved_at": gorm.Expr("NOW()"),
			"resolved_by": adminID,
		}).Error
}

// RunSuspiciousActivityDetection invokes the SQL-side anomaly detection
// procedure. Its algorithm lives entirely in the database.
func (s *Service) RunSuspiciousActivityDetection() error {
	return s.DB.Exec("SELECT detect_suspicious_activity()").Error
}

// --- Login throttling ---

// RegisterFailedLogin bumps the failed-attempt counter for an email and
// returns the new count. The counter expires after the lockout window.
func (s *Service) RegisterFailedLogin(email string) (int64, error) {
	key := "login_fail:" + email
	count, err := s.Redis.Incr(s.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		s.Redis.Expire(s.Ctx, key, config.LockoutDuration)
	}
	return count, nil
}

// FailedLoginCount reads the current failed-attempt counter for an email.
func (s *Service) FailedLoginCount(email string) (int64, error) {
	count, err := s.Redis.Get(s.Ctx, "login_fail:"+email).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Service) ClearFailedLogins(email string) error {
	return s.Redis.Del(s.Ctx, "login_fail:"+email).Err()
}

// --- Change feed ---

// PublishChange публікує подію зміни рядка в Redis Pub/Sub
// The admin CLI runs without Redis; publishes are a no-op there.
func (s *Service) PublishChange(table string, ev models.ChangeEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, ChangeChannel(table), string(payload)).Err()
}

// SubscribeChanges opens a pub/sub subscription covering the given tables.
// The caller owns the returned subscription and must Close it.
func (s *Service) SubscribeChanges(tables ...string) *redis.PubSub {
	channels := make([]string, 0, len(tables))
	for _, t := range tables {
		channels = append(channels, ChangeChannel(t))
	}
	return s.Redis.Subscribe(s.Ctx, channels...)
}

// publishRow marshals the row snapshots and publishes the change event.
func (s *Service) publishRow(table string, kind models.EventKind, oldRow, newRow interface{}) {
	ev := models.ChangeEvent{Table: table, Kind: kind}
	if oldRow != nil {
		raw, err := json.Marshal(oldRow)
		if err != nil {
			log.Printf("ERROR: Failed to marshal old row for %s: %v", table, err)
			return
		}
		ev.Old = raw
	}
	if newRow != nil {
		raw, err := json.Marshal(newRow)
		if err != nil {
			log.Printf("ERROR: Failed to marshal new row for %s: %v", table, err)
			return
		}
		ev.New = raw
	}
	if err := s.PublishChange(table, ev); err != nil {
		log.Printf("ERROR: Failed to publish %s %s event: %v", table, kind, err)
	}
}
