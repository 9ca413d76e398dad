package core

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/redischat/internal/store"
	"github.com/vovakirdan/redischat/internal/store/embedded"
	"github.com/vovakirdan/redischat/internal/store/redisstore"
)

var fixedNow = time.Date(2024, 3, 1, 12, 34, 56, 0, time.Local)

// newTestService starts an embedded store, seeds it and returns a service with a fixed clock.
func newTestService(t *testing.T) *Service {
	t.Helper()

	srv, err := embedded.Start()
	if err != nil {
		t.Fatalf("failed to start embedded redis: %v", err)
	}
	t.Cleanup(srv.Close)

	st, err := redisstore.New(context.Background(), redisstore.Options{
		Addr:     srv.Addr(),
		Protocol: embedded.Protocol,
		PollWait: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(st, Options{Now: func() time.Time { return fixedNow }})
	if err := svc.Seed(context.Background(), DefaultSeed()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc
}

func newTestSession(t *testing.T, svc *Service) *Session {
	t.Helper()

	sess := NewSession(context.Background(), svc)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func identify(t *testing.T, sess *Session, name string) {
	t.Helper()

	p := store.Profile{Username: name, Age: "30", Gender: "F", Location: "NYC"}
	if _, err := sess.Identify(context.Background(), p); err != nil {
		t.Fatalf("identify %s: %v", name, err)
	}
}

// mustEvent polls the session until an event arrives or the deadline passes.
func mustEvent(t *testing.T, sess *Session) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev, err := sess.Poll(context.Background())
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		if ev != nil {
			return ev
		}
	}
	t.Fatalf("expected event not received")
	return nil
}

// mustNoEvent polls a few times and fails if anything arrives.
func mustNoEvent(t *testing.T, sess *Session) {
	t.Helper()

	for i := 0; i < 5; i++ {
		ev, err := sess.Poll(context.Background())
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		if ev != nil {
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
}
