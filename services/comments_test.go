package services

import (
	"errors"
	"testing"

	"github.com/marulab/maruboard/models"
)

func TestCommentTreeTwoLevels(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(5))

	topID, err := comments.Create("sub-kim", post.PublicID, "nice", "")
	if err != nil {
		t.Fatalf("create top-level: %v", err)
	}
	if _, err := comments.Create("sub-kim", post.PublicID, "thanks", topID); err != nil {
		t.Fatalf("create reply: %v", err)
	}

	tree, err := comments.ListByPost(post.PublicID, "")
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("tree has %d top-level entries, want 1", len(tree))
	}
	if tree[0].Content != "nice" || len(tree[0].Replies) != 1 || tree[0].Replies[0].Content != "thanks" {
		t.Errorf("tree = %+v, want one top-level comment with one reply", tree)
	}

	detail, err := NewPostService(db).Get(post.PublicID, "")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if detail.CommentCount != 2 {
		t.Errorf("detail comment count = %d, want 2", detail.CommentCount)
	}
}

func TestCommentTreeChronologicalOrder(t *testing.T) {
	db := newTestDB(t)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(10))

	for _, content := range []string{"first", "second", "third"} {
		seedComment(t, db, kim, post, nil, content)
	}

	tree, err := NewCommentService(db).ListByPost(post.PublicID, "")
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(tree) != len(want) {
		t.Fatalf("tree has %d entries, want %d", len(tree), len(want))
	}
	for i, w := range want {
		if tree[i].Content != w {
			t.Errorf("tree[%d] = %q, want %q", i, tree[i].Content, w)
		}
	}
}

func TestReplyDepthCap(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(5))

	topID, err := comments.Create("sub-kim", post.PublicID, "top", "")
	if err != nil {
		t.Fatalf("create top-level: %v", err)
	}
	replyID, err := comments.Create("sub-kim", post.PublicID, "reply", topID)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	if _, err := comments.Create("sub-kim", post.PublicID, "too deep", replyID); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("reply to reply = %v, want ErrInvalidArgument", err)
	}
}

func TestReplyMustMatchParentPost(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	postA := seedPost(t, db, kim, subject, "A", minutesAgo(5))
	postB := seedPost(t, db, kim, subject, "B", minutesAgo(4))

	topID, err := comments.Create("sub-kim", postA.PublicID, "on A", "")
	if err != nil {
		t.Fatalf("create top-level: %v", err)
	}

	if _, err := comments.Create("sub-kim", postB.PublicID, "wrong post", topID); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("cross-post reply = %v, want ErrInvalidArgument", err)
	}
}

func TestCommentOwnerGuard(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	seedUser(t, db, "sub-lee", "Lee")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(5))
	comment := seedComment(t, db, kim, post, nil, "mine")

	if err := comments.Update("sub-lee", comment.PublicID, "hijacked"); !errors.Is(err, ErrForbidden) {
		t.Errorf("update by non-owner = %v, want ErrForbidden", err)
	}
	if err := comments.Delete("sub-lee", comment.PublicID); !errors.Is(err, ErrForbidden) {
		t.Errorf("delete by non-owner = %v, want ErrForbidden", err)
	}

	if err := comments.Update("sub-kim", comment.PublicID, "edited"); err != nil {
		t.Fatalf("update by owner: %v", err)
	}
	got, err := comments.Get(comment.PublicID, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != "edited" {
		t.Errorf("content = %q, want %q", got.Content, "edited")
	}
}

func TestCommentDeleteCascadeIsolation(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)
	likes := NewLikeService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(10))

	doomed := seedComment(t, db, kim, post, nil, "doomed")
	doomedReply := seedComment(t, db, kim, post, doomed, "doomed reply")
	survivor := seedComment(t, db, kim, post, nil, "survivor")
	survivorReply := seedComment(t, db, kim, post, survivor, "survivor reply")

	for _, c := range []*models.Comment{doomed, doomedReply, survivor, survivorReply} {
		if err := likes.Toggle("sub-kim", c.PublicID, models.LikeKindComment); err != nil {
			t.Fatalf("toggle %q: %v", c.Content, err)
		}
	}

	if err := comments.Delete("sub-kim", doomed.PublicID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, id := range []string{doomed.PublicID, doomedReply.PublicID} {
		if _, err := comments.Get(id, ""); !errors.Is(err, ErrNotFound) {
			t.Errorf("deleted comment %s still readable: %v", id, err)
		}
	}

	got, err := comments.Get(survivor.PublicID, "sub-kim")
	if err != nil {
		t.Fatalf("survivor gone: %v", err)
	}
	if got.LikeCount != 1 || !got.IsLiked {
		t.Errorf("survivor like state = %d/%v, want 1/true", got.LikeCount, got.IsLiked)
	}
	if _, err := comments.Get(survivorReply.PublicID, ""); err != nil {
		t.Errorf("survivor reply gone: %v", err)
	}

	var orphanLikes int64
	db.Model(&models.Like{}).Where("comment_id IN ?", []uint{doomed.ID, doomedReply.ID}).Count(&orphanLikes)
	if orphanLikes != 0 {
		t.Errorf("%d orphan likes left after cascade", orphanLikes)
	}
}

func TestListByAuthorAttachesPostTitles(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)

	kim := seedUser(t, db, "sub-kim", "Kim")
	subject := seedSubject(t, db, "general")
	post := seedPost(t, db, kim, subject, "Hello", minutesAgo(5))
	seedComment(t, db, kim, post, nil, "mine")

	authored, err := comments.ListByAuthor(kim.PublicID)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(authored) != 1 || authored[0].Post.Title != "Hello" {
		t.Errorf("ListByAuthor = %+v, want one comment on post Hello", authored)
	}

	// Unknown authors read as empty, not as an error.
	empty, err := comments.ListByAuthor("no-such-user")
	if err != nil || len(empty) != 0 {
		t.Errorf("ListByAuthor(unknown) = %v, %v, want empty slice", empty, err)
	}
}
