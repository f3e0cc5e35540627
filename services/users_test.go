package services

import (
	"errors"
	"testing"

	"github.com/marulab/maruboard/models"
)

func TestRequireActorRejectsAnonymous(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	if _, err := svc.RequireActor(""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("RequireActor(\"\") = %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.RequireActor("ghost-subject"); !errors.Is(err, ErrUnregistered) {
		t.Errorf("RequireActor(unknown) = %v, want ErrUnregistered", err)
	}
}

func TestResolveViewerNeverErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	if svc.ResolveViewer("") != nil {
		t.Error("anonymous subject should resolve to nil viewer")
	}
	if svc.ResolveViewer("nobody") != nil {
		t.Error("unknown subject should resolve to nil viewer")
	}

	seedUser(t, db, "sub-kim", "Kim")
	viewer := svc.ResolveViewer("sub-kim")
	if viewer == nil || viewer.Name != "Kim" {
		t.Errorf("ResolveViewer(sub-kim) = %+v, want Kim", viewer)
	}
}

func TestSyncFromIdentityUpserts(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	first, err := svc.SyncFromIdentity("sub-lee", "Lee")
	if err != nil {
		t.Fatalf("SyncFromIdentity create: %v", err)
	}
	if first.PublicID == "" {
		t.Error("created user has no public id")
	}

	// Same subject again with a new display name updates in place.
	second, err := svc.SyncFromIdentity("sub-lee", "Lee Min")
	if err != nil {
		t.Fatalf("SyncFromIdentity update: %v", err)
	}
	if second.ID != first.ID || second.PublicID != first.PublicID {
		t.Errorf("upsert created a second user: %d vs %d", second.ID, first.ID)
	}
	if second.Name != "Lee Min" {
		t.Errorf("name not updated: %q", second.Name)
	}

	var total int64
	db.Model(&models.User{}).Count(&total)
	if total != 1 {
		t.Errorf("expected 1 user after repeated sync, got %d", total)
	}
}

func TestSyncFromIdentityRejectsEmptySubject(t *testing.T) {
	db := newTestDB(t)
	if _, err := NewUserService(db).SyncFromIdentity("", "Nameless"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SyncFromIdentity(\"\") = %v, want ErrInvalidArgument", err)
	}
}

func TestRemoveByExternalIDDropsLikes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	author := seedUser(t, db, "sub-author", "Author")
	leaver := seedUser(t, db, "sub-leaver", "Leaver")
	subject := seedSubject(t, db, "question")
	post := seedPost(t, db, author, subject, "farewell", minutesAgo(0))

	if err := NewLikeService(db).Toggle("sub-leaver", post.PublicID, models.LikeKindPost); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if err := svc.RemoveByExternalID("sub-leaver"); err != nil {
		t.Fatalf("RemoveByExternalID: %v", err)
	}

	if svc.ResolveViewer("sub-leaver") != nil {
		t.Error("removed user still resolves")
	}
	var likes int64
	db.Model(&models.Like{}).Where("user_id = ?", leaver.ID).Count(&likes)
	if likes != 0 {
		t.Errorf("removed user still has %d likes", likes)
	}

	// The post stays attributed to its (different) author.
	count, err := NewLikeService(db).Count(post.PublicID, models.LikeKindPost)
	if err != nil {
		t.Fatalf("count after removal: %v", err)
	}
	if count != 0 {
		t.Errorf("like count after removal = %d, want 0", count)
	}
}

func TestRemoveByExternalIDUnknown(t *testing.T) {
	db := newTestDB(t)
	if err := NewUserService(db).RemoveByExternalID("nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveByExternalID(unknown) = %v, want ErrNotFound", err)
	}
}
