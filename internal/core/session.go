package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/store"
)

// Session is one interactive chat participant: an optional identity, the
// channels it has joined, and its subscription to the store.
// A Session is not safe for concurrent use.
type Session struct {
	svc      *Service
	sub      store.Subscription
	log      *zerolog.Logger
	user     string
	channels *channelSet
}

// NewSession opens a subscription on the service's store.
func NewSession(ctx context.Context, svc *Service) *Session {
	return &Session{
		svc:      svc,
		sub:      svc.store.Subscribe(ctx),
		log:      svc.log,
		channels: newChannelSet(),
	}
}

// User returns the identified username, or "" while anonymous.
func (s *Session) User() string {
	return s.user
}

// Identify stores the profile, sets the session identity and starts listening
// on the user's private channel. Re-identifying as the same user overwrites
// the profile; switching to another username is refused.
func (s *Session) Identify(ctx context.Context, p store.Profile) (string, error) {
	if s.user != "" && s.user != p.Username {
		return "", ErrAlreadyIdentified
	}
	if err := s.svc.SaveProfile(ctx, p); err != nil {
		return "", err
	}

	private := PrivateChannel(p.Username)
	if err := s.sub.Subscribe(ctx, private); err != nil {
		return "", err
	}
	s.user = p.Username

	s.log.Info().Str("user", p.Username).Str("private_channel", private).Msg("user identified")
	return private, nil
}

// Join subscribes to channel. Returns true if it was not joined before.
func (s *Session) Join(ctx context.Context, channel string) (bool, error) {
	if err := s.sub.Subscribe(ctx, channel); err != nil {
		return false, err
	}
	added := s.channels.Add(channel)
	s.log.Debug().Str("channel", channel).Bool("added", added).Msg("joined channel")
	return added, nil
}

// Leave unsubscribes from channel. Returns true if it was joined before.
func (s *Session) Leave(ctx context.Context, channel string) (bool, error) {
	if err := s.sub.Unsubscribe(ctx, channel); err != nil {
		return false, err
	}
	removed := s.channels.Remove(channel)
	s.log.Debug().Str("channel", channel).Bool("removed", removed).Msg("left channel")
	return removed, nil
}

// Channels lists joined channels in join order.
func (s *Session) Channels() []string {
	return s.channels.List()
}

// Send publishes text to channel and records it in history.
func (s *Session) Send(ctx context.Context, channel, text string) (string, error) {
	if s.user == "" {
		return "", ErrNotIdentified
	}
	return s.svc.Publish(ctx, s.user, channel, text)
}

// SendPrivate publishes text to recipient's private channel.
func (s *Session) SendPrivate(ctx context.Context, recipient, text string) error {
	if s.user == "" {
		return ErrNotIdentified
	}
	_, err := s.svc.PublishPrivate(ctx, s.user, recipient, text)
	return err
}

// Poll returns at most one pending delivery, or nil when none is waiting.
func (s *Session) Poll(ctx context.Context) (*Event, error) {
	d, err := s.sub.Poll(ctx)
	if err != nil || d == nil {
		return nil, err
	}

	ev := eventFromDelivery(d.Channel, d.Payload)
	s.svc.countDelivery(ev)
	return ev, nil
}

// Whoami returns the stored profile of the identified user.
func (s *Session) Whoami(ctx context.Context) (*store.Profile, error) {
	if s.user == "" {
		return nil, ErrNotIdentified
	}
	p, err := s.svc.Profile(ctx, s.user)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// History returns recent channel entries, oldest first.
func (s *Session) History(ctx context.Context, channel string, count int) ([]string, error) {
	return s.svc.History(ctx, channel, count)
}

// Weather looks up a city.
func (s *Session) Weather(ctx context.Context, city string) (string, error) {
	return s.svc.Weather(ctx, city)
}

// Fact returns a random fact.
func (s *Session) Fact(ctx context.Context) (string, error) {
	return s.svc.Fact(ctx)
}

// Close releases the subscription connection.
func (s *Session) Close() error {
	return s.sub.Close()
}
