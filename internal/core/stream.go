package core

import (
	"context"

	"github.com/vovakirdan/redischat/internal/metrics"
)

// Stream subscribes to channel on a dedicated connection and calls fn for
// every delivery until ctx ends (returns nil) or fn or the store fails.
func (s *Service) Stream(ctx context.Context, channel string, fn func(*Event) error) error {
	sub := s.store.Subscribe(ctx)
	defer sub.Close()

	if err := sub.Subscribe(ctx, channel); err != nil {
		return err
	}
	// Receive does not watch ctx once blocked on the socket; closing unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = sub.Close() })
	defer stop()

	s.log.Debug().Str("channel", channel).Msg("stream started")
	for {
		d, err := sub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		ev := eventFromDelivery(d.Channel, d.Payload)
		s.countDelivery(ev)
		if err := fn(ev); err != nil {
			return err
		}
	}
}

func (s *Service) countDelivery(ev *Event) {
	if ev.Kind == EventPrivateMessage {
		s.metrics.Delivered(metrics.KindPrivate)
		return
	}
	s.metrics.Delivered(metrics.KindPublic)
}
