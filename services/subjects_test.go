package services

import (
	"errors"
	"testing"

	"github.com/marulab/maruboard/models"
)

func TestSubjectCreateRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	subjects := NewSubjectService(db)

	if _, err := subjects.Create("question", "질문 카테고리"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := subjects.Create("question", "again"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("duplicate create = %v, want ErrInvalidArgument", err)
	}
	if _, err := subjects.Create("  ", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank name = %v, want ErrInvalidArgument", err)
	}
}

func TestSubjectRemoveRefusesWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	subjects := NewSubjectService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(0))

	if err := subjects.Remove(subject.PublicID); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("remove referenced subject = %v, want ErrInvalidArgument", err)
	}

	if err := NewPostService(db).Delete("sub-kim", post.PublicID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if err := subjects.Remove(subject.PublicID); err != nil {
		t.Fatalf("remove after last post: %v", err)
	}
	if _, err := subjects.Get(subject.PublicID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed subject still readable: %v", err)
	}
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	db := newTestDB(t)
	subjects := NewSubjectService(db)

	for i := 0; i < 2; i++ {
		if err := subjects.SeedDefaults(); err != nil {
			t.Fatalf("seed round %d: %v", i, err)
		}
	}

	var total int64
	db.Model(&models.Subject{}).Count(&total)
	if total != 2 {
		t.Errorf("seeded %d subjects, want 2", total)
	}

	all, err := subjects.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := map[string]bool{}
	for _, s := range all {
		names[s.Name] = true
	}
	if !names["question"] || !names["feedback"] {
		t.Errorf("seeded subjects = %v, want question and feedback", names)
	}
}
