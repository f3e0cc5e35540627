package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageOpts selects one page of a listing. An empty Cursor means the first
// page; Count is clamped to [1, 100] with a default of 10.
type PageOpts struct {
	Count  int
	Cursor string
}

func (o PageOpts) count() int {
	if o.Count <= 0 {
		return defaultPageSize
	}
	if o.Count > maxPageSize {
		return maxPageSize
	}
	return o.Count
}

// postCursor is the keyset position of the last item on the previous page.
// Listings order by (created_at DESC, id DESC), so the next page is everything
// strictly before this position.
type postCursor struct {
	LastCreated time.Time `json:"c"`
	LastID      uint      `json:"i"`
}

func encodeCursor(cur postCursor) string {
	b, err := json.Marshal(cur)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(raw string) (postCursor, error) {
	var cur postCursor
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return cur, fmt.Errorf("malformed cursor: %w", ErrInvalidArgument)
	}
	if err := json.Unmarshal(b, &cur); err != nil {
		return cur, fmt.Errorf("malformed cursor: %w", ErrInvalidArgument)
	}
	if cur.LastID == 0 {
		return cur, fmt.Errorf("malformed cursor: %w", ErrInvalidArgument)
	}
	return cur, nil
}
