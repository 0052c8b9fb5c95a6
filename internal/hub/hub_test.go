package hub

import (
	"context"
	"testing"
	"time"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/session"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, session.Options{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "ZED123", Config: arena.DefaultConfig(), Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{Code: "ZED123", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}

	h.Inbox() <- EnsureSession{Code: "ZED123", Config: arena.DefaultConfig(), Reply: reply}
	if s3 := <-reply; s3 != s1 {
		t.Fatalf("ensure should return the existing session")
	}
}

func TestHub_GetMissing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, session.Options{})

	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{Code: "NOPE00", Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected nil session, got %v", s.Code())
	}
}

func TestHub_ListAndRemove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, session.Options{Seed: 9})

	reply := make(chan *session.Session, 1)
	for _, code := range []string{"BBB222", "AAA111"} {
		h.Inbox() <- CreateSession{Code: code, Config: arena.DefaultConfig(), Reply: reply}
		<-reply
	}

	list := make(chan []string, 1)
	h.Inbox() <- ListSessions{Reply: list}
	codes := <-list
	if len(codes) != 2 || codes[0] != "AAA111" || codes[1] != "BBB222" {
		t.Fatalf("want sorted codes [AAA111 BBB222], got %v", codes)
	}

	h.Inbox() <- GetSession{Code: "AAA111", Reply: reply}
	removed := <-reply
	h.Inbox() <- RemoveSession{Code: "AAA111"}

	select {
	case <-removed.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("removed session still running")
	}

	h.Inbox() <- ListSessions{Reply: list}
	if codes := <-list; len(codes) != 1 || codes[0] != "BBB222" {
		t.Fatalf("want [BBB222], got %v", codes)
	}
}

func TestHub_ShutdownStopsSessions(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})

	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: "ZED123", Config: arena.DefaultConfig(), Reply: reply}
	s := <-reply

	h.Inbox() <- ShutdownHub{}

	for name, done := range map[string]<-chan struct{}{"hub": h.Done(), "session": s.Done()} {
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("%s still running after shutdown", name)
		}
	}
}
