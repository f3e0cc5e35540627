package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marulab/maruboard/models"
)

// newTestDB opens a per-test in-memory sqlite database with the same schema
// and error translation as the production MySQL setup.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Subject{}, &models.Post{}, &models.Comment{}, &models.Like{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// minutesAgo spreads seeded rows over distinct creation times so ordering
// assertions do not depend on insertion order alone.
func minutesAgo(n int) time.Time {
	return time.Now().Add(-time.Duration(n) * time.Minute)
}

func seedUser(t *testing.T, db *gorm.DB, externalID, name string) *models.User {
	t.Helper()
	user := models.User{ExternalID: externalID, Name: name}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", externalID, err)
	}
	return &user
}

func seedSubject(t *testing.T, db *gorm.DB, name string) *models.Subject {
	t.Helper()
	subject := models.Subject{Name: name}
	if err := db.Create(&subject).Error; err != nil {
		t.Fatalf("seed subject %s: %v", name, err)
	}
	return &subject
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, subject *models.Subject, title string, createdAt time.Time) *models.Post {
	t.Helper()
	post := models.Post{
		AuthorID:  author.ID,
		SubjectID: subject.ID,
		Title:     title,
		Content:   "body of " + title,
		Type:      models.PostTypeGeneral,
		CreatedAt: createdAt,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return &post
}

func seedComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, parent *models.Comment, content string) *models.Comment {
	t.Helper()
	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment %q: %v", content, err)
	}
	return &comment
}
