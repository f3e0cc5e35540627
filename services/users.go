package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marulab/maruboard/models"
)

// UserService resolves identity-provider subjects to user records and applies
// sync events from the provider's webhook. It is the only writer of the users
// table.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// resolveViewer maps an external subject to a user record for read paths.
// Anonymous or unknown subjects resolve to nil, never to an error.
func resolveViewer(db *gorm.DB, subject string) *models.User {
	if subject == "" {
		return nil
	}
	var user models.User
	if err := db.Where("external_id = ?", subject).First(&user).Error; err != nil {
		return nil
	}
	return &user
}

// requireActor maps an external subject to a user record for write paths. A
// missing subject is ErrUnauthenticated; a subject the identity provider
// vouched for but we have no record of is ErrUnregistered.
func requireActor(db *gorm.DB, subject string) (*models.User, error) {
	if subject == "" {
		return nil, ErrUnauthenticated
	}
	var user models.User
	if err := db.Where("external_id = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnregistered
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return &user, nil
}

// ResolveViewer returns the user for subject, or nil for anonymous and
// unknown subjects.
func (s *UserService) ResolveViewer(subject string) *models.User {
	return resolveViewer(s.db, subject)
}

// RequireActor returns the registered user for subject or a typed failure.
func (s *UserService) RequireActor(subject string) (*models.User, error) {
	return requireActor(s.db, subject)
}

// SyncFromIdentity upserts the user record for an identity-provider subject.
// Called from the provider's user.created/user.updated webhook events.
func (s *UserService) SyncFromIdentity(externalID, name string) (*models.User, error) {
	if externalID == "" {
		return nil, fmt.Errorf("missing external id: %w", ErrInvalidArgument)
	}
	var user models.User
	err := s.db.Where("external_id = ?", externalID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{ExternalID: externalID, Name: name}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	user.Name = name
	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// RemoveByExternalID deletes the user for an identity-provider subject along
// with the user's likes. Posts and comments stay attributed to the removed
// author id. Driven by the provider's user.deleted event or an administrator.
func (s *UserService) RemoveByExternalID(externalID string) error {
	var user models.User
	if err := s.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("delete user likes: %w", err)
		}
		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}
