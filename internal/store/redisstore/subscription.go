package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/redischat/internal/store"
)

const (
	// defaultPollWait bounds how long Poll waits on the socket before reporting nothing pending.
	defaultPollWait = 10 * time.Millisecond
	confirmTimeout  = 5 * time.Second
)

// subscription wraps a go-redis PubSub connection.
// Messages that arrive while waiting for a subscribe/unsubscribe confirmation
// are queued so they surface through Poll/Receive in arrival order.
type subscription struct {
	ps       *redis.PubSub
	pending  []*store.Delivery
	active   map[string]struct{}
	pollWait time.Duration
}

func newSubscription(ps *redis.PubSub, pollWait time.Duration) *subscription {
	if pollWait <= 0 {
		pollWait = defaultPollWait
	}
	return &subscription{
		ps:       ps,
		active:   make(map[string]struct{}),
		pollWait: pollWait,
	}
}

// Subscribe adds channels and waits for the store to confirm them.
func (s *subscription) Subscribe(ctx context.Context, channels ...string) error {
	if len(channels) == 0 {
		return nil
	}
	if err := s.ps.Subscribe(ctx, channels...); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	if err := s.awaitConfirm(ctx, "subscribe", channels); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	for _, ch := range channels {
		s.active[ch] = struct{}{}
	}
	return nil
}

// Unsubscribe removes channels and waits for the store to confirm them.
// An empty channel list is a no-op rather than "unsubscribe from everything".
func (s *subscription) Unsubscribe(ctx context.Context, channels ...string) error {
	if len(channels) == 0 {
		return nil
	}
	if err := s.ps.Unsubscribe(ctx, channels...); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	if err := s.awaitConfirm(ctx, "unsubscribe", channels); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	for _, ch := range channels {
		delete(s.active, ch)
	}
	return nil
}

// Poll returns the next pending delivery without blocking, or nil if none.
func (s *subscription) Poll(ctx context.Context) (*store.Delivery, error) {
	if d := s.popPending(); d != nil {
		return d, nil
	}
	// Nothing can arrive on a connection with no subscriptions.
	if len(s.active) == 0 {
		return nil, nil
	}

	for {
		msg, err := s.ps.ReceiveTimeout(ctx, s.pollWait)
		if err != nil {
			if isTimeout(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("poll: %w", err)
		}
		if d := toDelivery(msg); d != nil {
			return d, nil
		}
	}
}

// Receive blocks until a delivery arrives, the context ends, or the subscription is closed.
func (s *subscription) Receive(ctx context.Context) (*store.Delivery, error) {
	if d := s.popPending(); d != nil {
		return d, nil
	}
	for {
		msg, err := s.ps.Receive(ctx)
		if err != nil {
			return nil, fmt.Errorf("receive: %w", err)
		}
		if d := toDelivery(msg); d != nil {
			return d, nil
		}
	}
}

// Close releases the subscriber connection.
func (s *subscription) Close() error {
	return s.ps.Close()
}

func (s *subscription) awaitConfirm(ctx context.Context, kind string, channels []string) error {
	waiting := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		waiting[ch] = struct{}{}
	}

	for len(waiting) > 0 {
		msg, err := s.ps.ReceiveTimeout(ctx, confirmTimeout)
		if err != nil {
			return err
		}
		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind == kind {
				delete(waiting, m.Channel)
			}
		case *redis.Message:
			s.pending = append(s.pending, &store.Delivery{Channel: m.Channel, Payload: m.Payload})
		}
	}
	return nil
}

func (s *subscription) popPending() *store.Delivery {
	if len(s.pending) == 0 {
		return nil
	}
	d := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return d
}

func toDelivery(msg any) *store.Delivery {
	m, ok := msg.(*redis.Message)
	if !ok {
		return nil
	}
	return &store.Delivery{Channel: m.Channel, Payload: m.Payload}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
