package services

import (
	"errors"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	in := postCursor{LastCreated: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), LastID: 42}
	out, err := decodeCursor(encodeCursor(in))
	if err != nil {
		t.Fatalf("decodeCursor failed: %v", err)
	}
	if !out.LastCreated.Equal(in.LastCreated) || out.LastID != in.LastID {
		t.Errorf("round trip changed cursor: got %+v, want %+v", out, in)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"not base64 at all!!", "aGVsbG8", ""} {
		if _, err := decodeCursor(raw); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("decodeCursor(%q) = %v, want ErrInvalidArgument", raw, err)
		}
	}
}

func TestPageOptsCountClamps(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 10},
		{-5, 10},
		{7, 7},
		{100, 100},
		{500, 100},
	}
	for _, c := range cases {
		if got := (PageOpts{Count: c.in}).count(); got != c.want {
			t.Errorf("count(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
