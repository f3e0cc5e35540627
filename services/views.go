package services

import "time"

// Read-model types returned by the aggregation layer. Intermediate query rows
// are always reshaped into these concrete records before leaving the package.

// AuthorInfo is the display info attached to posts and comments.
type AuthorInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubjectInfo is the topic tag attached to posts.
type SubjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostRef is a minimal post reference used when listing a user's comments.
type PostRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PostSummary is one row of a post listing, enriched with author, subject and
// viewer-relative like state. CommentCount is the flat count of all comments
// on the post; because a reply always shares its parent's post, this equals
// the nested total shown in the detail view.
type PostSummary struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Type         string      `json:"type"`
	Views        int64       `json:"views"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Author       AuthorInfo  `json:"author"`
	Subject      SubjectInfo `json:"subject"`
	LikeCount    int64       `json:"like_count"`
	IsLiked      bool        `json:"is_liked"`
	CommentCount int64       `json:"comment_count"`
}

// PostDetail is a post plus its two-level comment tree. CommentCount here is
// the nested total: one per top-level comment plus one per reply.
type PostDetail struct {
	PostSummary
	Comments []CommentView `json:"comments"`
}

// CommentView is one node of the comment tree. Replies is populated only on
// top-level comments; reply nodes never nest further.
type CommentView struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Author    AuthorInfo    `json:"author"`
	LikeCount int64         `json:"like_count"`
	IsLiked   bool          `json:"is_liked"`
	Replies   []CommentView `json:"replies,omitempty"`
}

// AuthoredComment is one row when listing a user's comments across posts.
type AuthoredComment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Post      PostRef   `json:"post"`
}

// PostPage is one cursor page of post summaries. Total is the size of the
// whole filtered set, recomputed per request.
type PostPage struct {
	Items      []PostSummary `json:"items"`
	Total      int64         `json:"total"`
	IsDone     bool          `json:"is_done"`
	NextCursor string        `json:"next_cursor,omitempty"`
}
