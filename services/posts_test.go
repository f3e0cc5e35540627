package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marulab/maruboard/models"
)

func TestPostCreateGetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")

	id, err := posts.Create("sub-kim", PostInput{
		Title:     "Hello",
		Content:   "World",
		SubjectID: subject.PublicID,
		Type:      models.PostTypeGeneral,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := posts.Get(id, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Title != "Hello" || detail.Content != "World" {
		t.Errorf("round trip lost fields: %+v", detail.PostSummary)
	}
	if detail.Author.Name != "Kim" || detail.Subject.Name != "general" {
		t.Errorf("author/subject = %q/%q, want Kim/general", detail.Author.Name, detail.Subject.Name)
	}
	if detail.LikeCount != 0 || detail.IsLiked || len(detail.Comments) != 0 {
		t.Errorf("fresh post = likes %d liked %v comments %d", detail.LikeCount, detail.IsLiked, len(detail.Comments))
	}
}

func TestPostGetUnknown(t *testing.T) {
	db := newTestDB(t)
	if _, err := NewPostService(db).Get("no-such-id", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrNotFound", err)
	}
}

func TestPostCreateValidation(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")

	if _, err := posts.Create("sub-kim", PostInput{Title: "   ", Content: "x", SubjectID: subject.PublicID, Type: "general"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("blank title = %v, want ErrInvalidArgument", err)
	}
	if _, err := posts.Create("sub-kim", PostInput{Title: "ok", Content: "x", SubjectID: subject.PublicID, Type: "spam"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unknown type = %v, want ErrInvalidArgument", err)
	}
	if _, err := posts.Create("sub-kim", PostInput{Title: "ok", Content: "x", SubjectID: "no-such-subject", Type: "general"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown subject = %v, want ErrNotFound", err)
	}
	if _, err := posts.Create("", PostInput{Title: "ok", Content: "x", SubjectID: subject.PublicID, Type: "general"}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("anonymous create = %v, want ErrUnauthenticated", err)
	}
}

func TestPostOwnerGuard(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	seedUser(t, db, "sub-lee", "Lee")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(0))

	title := "hijacked"
	if err := posts.Update("sub-lee", post.PublicID, PostPatch{Title: &title}); !errors.Is(err, ErrForbidden) {
		t.Errorf("update by non-owner = %v, want ErrForbidden", err)
	}
	if err := posts.Delete("sub-lee", post.PublicID); !errors.Is(err, ErrForbidden) {
		t.Errorf("delete by non-owner = %v, want ErrForbidden", err)
	}

	title = "edited"
	if err := posts.Update("sub-kim", post.PublicID, PostPatch{Title: &title}); err != nil {
		t.Fatalf("update by owner: %v", err)
	}
	detail, err := posts.Get(post.PublicID, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Title != "edited" {
		t.Errorf("title = %q, want %q", detail.Title, "edited")
	}
}

func TestPostDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	likes := NewLikeService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	lee := seedUser(t, db, "sub-lee", "Lee")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "doomed", minutesAgo(5))
	other := seedPost(t, db, lee, subject, "survivor", minutesAgo(4))

	top := seedComment(t, db, lee, post, nil, "nice")
	seedComment(t, db, kim, post, top, "thanks")
	otherComment := seedComment(t, db, kim, other, nil, "elsewhere")

	if err := likes.Toggle("sub-lee", post.PublicID, models.LikeKindPost); err != nil {
		t.Fatalf("toggle post: %v", err)
	}
	if err := likes.Toggle("sub-kim", top.PublicID, models.LikeKindComment); err != nil {
		t.Fatalf("toggle comment: %v", err)
	}
	if err := likes.Toggle("sub-kim", otherComment.PublicID, models.LikeKindComment); err != nil {
		t.Fatalf("toggle other comment: %v", err)
	}

	if err := posts.Delete("sub-kim", post.PublicID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := posts.Get(post.PublicID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted post still readable: %v", err)
	}
	var remaining int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&remaining)
	if remaining != 0 {
		t.Errorf("%d comments survived the cascade", remaining)
	}
	db.Model(&models.Like{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("%d likes left, want only the like on the surviving post's comment", remaining)
	}

	// The unrelated post is untouched.
	detail, err := posts.Get(other.PublicID, "")
	if err != nil {
		t.Fatalf("surviving post: %v", err)
	}
	if detail.CommentCount != 1 {
		t.Errorf("surviving post lost comments: count %d", detail.CommentCount)
	}
}

func TestPostPaginationCoversAllWithoutDuplicates(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	const n = 23
	for i := 0; i < n; i++ {
		seedPost(t, db, kim, subject, fmt.Sprintf("post-%02d", i), minutesAgo(n-i))
	}

	seen := make(map[string]bool)
	var cursor string
	var pages int
	for {
		page, err := posts.List(PostFilter{}, PageOpts{Count: 5, Cursor: cursor}, "")
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		if page.Total != n {
			t.Errorf("page %d total = %d, want %d", pages, page.Total, n)
		}
		for _, item := range page.Items {
			if seen[item.ID] {
				t.Errorf("post %s returned twice", item.ID)
			}
			seen[item.ID] = true
		}
		pages++
		if page.IsDone {
			if page.NextCursor != "" {
				t.Error("final page carries a cursor")
			}
			break
		}
		if page.NextCursor == "" {
			t.Fatal("non-final page without cursor")
		}
		cursor = page.NextCursor
	}

	if len(seen) != n {
		t.Errorf("pagination covered %d posts, want %d", len(seen), n)
	}
	if pages != 5 {
		t.Errorf("walked %d pages, want 5", pages)
	}
}

func TestPostListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	seedPost(t, db, kim, subject, "older", minutesAgo(10))
	seedPost(t, db, kim, subject, "newer", minutesAgo(1))

	page, err := posts.List(PostFilter{}, PageOpts{}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].Title != "newer" || page.Items[1].Title != "older" {
		t.Errorf("order = %+v, want newest first", page.Items)
	}
}

func TestPostFilterPrecedence(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	question := seedSubject(t, db, "question")
	feedback := seedSubject(t, db, "feedback")
	seedPost(t, db, kim, question, "question post", minutesAgo(3))
	notice := seedPost(t, db, kim, feedback, "feedback notice", minutesAgo(2))
	db.Model(notice).UpdateColumn("type", models.PostTypeNotice)

	// Subject wins over type: the question subject has no notices, yet the
	// subject filter is the one applied.
	page, err := posts.List(PostFilter{Subject: question.PublicID, Type: models.PostTypeNotice}, PageOpts{}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "question post" {
		t.Errorf("subject filter lost precedence: %+v", page.Items)
	}

	// Type filter alone.
	page, err = posts.List(PostFilter{Type: models.PostTypeNotice}, PageOpts{}, "")
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "feedback notice" {
		t.Errorf("type filter = %+v, want the notice", page.Items)
	}

	// Keyword search across both fields.
	page, err = posts.List(PostFilter{Keyword: "question"}, PageOpts{}, "")
	if err != nil {
		t.Fatalf("list by keyword: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "question post" {
		t.Errorf("keyword filter = %+v, want the question post", page.Items)
	}
}

func TestPostFilterUnknownSubjectIsEmpty(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	seedPost(t, db, kim, subject, "Hello", minutesAgo(0))

	page, err := posts.List(PostFilter{Subject: "no-such-subject"}, PageOpts{}, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 0 || !page.IsDone {
		t.Errorf("unknown subject page = %+v, want empty done page", page)
	}
}

func TestPostFilterInvalidValues(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	if _, err := posts.List(PostFilter{Type: "spam"}, PageOpts{}, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("invalid type = %v, want ErrInvalidArgument", err)
	}
	if _, err := posts.List(PostFilter{Keyword: "x", KeywordField: "author"}, PageOpts{}, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("invalid keyword field = %v, want ErrInvalidArgument", err)
	}
	if _, err := posts.List(PostFilter{}, PageOpts{Cursor: "!!bad!!"}, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("malformed cursor = %v, want ErrInvalidArgument", err)
	}
}

func TestListByAuthorUnknownIsEmpty(t *testing.T) {
	db := newTestDB(t)
	page, err := NewPostService(db).ListByAuthor("no-such-user", PageOpts{}, "")
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(page.Items) != 0 || !page.IsDone {
		t.Errorf("unknown author page = %+v, want empty done page", page)
	}
}

func TestIncrementViews(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(0))

	for i := 0; i < 3; i++ {
		if err := posts.IncrementViews(post.PublicID); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	detail, err := posts.Get(post.PublicID, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Views != 3 {
		t.Errorf("views = %d, want 3", detail.Views)
	}

	if err := posts.IncrementViews("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("increment unknown = %v, want ErrNotFound", err)
	}
}
