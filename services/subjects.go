package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/marulab/maruboard/models"
)

// SubjectService manages the static topic reference data. Mutations are
// administrative; end users only ever read subjects.
type SubjectService struct {
	db *gorm.DB
}

// NewSubjectService creates a new SubjectService instance.
func NewSubjectService(db *gorm.DB) *SubjectService {
	return &SubjectService{db: db}
}

// SubjectDetail is the full subject record exposed by the API.
type SubjectDetail struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func subjectDetail(s *models.Subject) SubjectDetail {
	return SubjectDetail{
		ID:          s.PublicID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

// List returns all subjects in creation order.
func (s *SubjectService) List() ([]SubjectDetail, error) {
	var subjects []models.Subject
	if err := s.db.Order("id ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	out := make([]SubjectDetail, 0, len(subjects))
	for i := range subjects {
		out = append(out, subjectDetail(&subjects[i]))
	}
	return out, nil
}

// Get returns one subject or ErrNotFound.
func (s *SubjectService) Get(publicID string) (*SubjectDetail, error) {
	var subject models.Subject
	if err := s.db.Where("public_id = ?", publicID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup subject: %w", err)
	}
	d := subjectDetail(&subject)
	return &d, nil
}

// Create inserts a subject and returns its public id. Names are unique.
func (s *SubjectService) Create(name, description string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name cannot be empty: %w", ErrInvalidArgument)
	}
	subject := models.Subject{Name: name, Description: description}
	if err := s.db.Create(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("subject %q already exists: %w", name, ErrInvalidArgument)
		}
		return "", fmt.Errorf("create subject: %w", err)
	}
	return subject.PublicID, nil
}

// Update patches name and/or description.
func (s *SubjectService) Update(publicID string, name, description *string) error {
	var subject models.Subject
	if err := s.db.Where("public_id = ?", publicID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup subject: %w", err)
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return fmt.Errorf("name cannot be empty: %w", ErrInvalidArgument)
		}
		subject.Name = trimmed
	}
	if description != nil {
		subject.Description = *description
	}
	if err := s.db.Save(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("subject name already exists: %w", ErrInvalidArgument)
		}
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Remove deletes a subject. A subject still referenced by posts cannot be
// removed; every post's subject must keep resolving.
func (s *SubjectService) Remove(publicID string) error {
	var subject models.Subject
	if err := s.db.Where("public_id = ?", publicID).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup subject: %w", err)
	}
	var inUse int64
	if err := s.db.Model(&models.Post{}).Where("subject_id = ?", subject.ID).Count(&inUse).Error; err != nil {
		return fmt.Errorf("count subject posts: %w", err)
	}
	if inUse > 0 {
		return fmt.Errorf("subject has %d posts: %w", inUse, ErrInvalidArgument)
	}
	if err := s.db.Delete(&subject).Error; err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}

// SeedDefaults creates the built-in subjects when missing. Idempotent.
func (s *SubjectService) SeedDefaults() error {
	defaults := []models.Subject{
		{Name: "question", Description: "질문 카테고리"},
		{Name: "feedback", Description: "피드백 카테고리"},
	}
	for _, subject := range defaults {
		var count int64
		if err := s.db.Model(&models.Subject{}).Where("name = ?", subject.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("check subject %q: %w", subject.Name, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.Create(&subject).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("seed subject %q: %w", subject.Name, err)
		}
	}
	return nil
}
