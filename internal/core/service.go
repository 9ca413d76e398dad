package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/metrics"
	"github.com/vovakirdan/redischat/internal/store"
)

const (
	defaultHistoryLimit   = 50
	defaultHistoryDisplay = 10
)

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	HistoryLimit   int
	HistoryDisplay int
	Metrics        *metrics.Metrics
	Logger         *zerolog.Logger
	// Now and RandN are replaceable for tests.
	Now   func() time.Time
	RandN func(n int64) int64
}

// Service implements the stateless store-backed chat operations shared by
// the interactive session and the HTTP bridge.
type Service struct {
	store          store.Store
	metrics        *metrics.Metrics
	log            *zerolog.Logger
	now            func() time.Time
	randN          func(n int64) int64
	historyLimit   int
	historyDisplay int
}

// NewService creates a service over st.
func NewService(st store.Store, opts Options) *Service {
	s := &Service{
		store:          st,
		metrics:        opts.Metrics,
		log:            opts.Logger,
		now:            opts.Now,
		randN:          opts.RandN,
		historyLimit:   opts.HistoryLimit,
		historyDisplay: opts.HistoryDisplay,
	}
	if s.log == nil {
		nop := zerolog.Nop()
		s.log = &nop
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.randN == nil {
		s.randN = rand.Int64N
	}
	if s.historyLimit <= 0 {
		s.historyLimit = defaultHistoryLimit
	}
	if s.historyDisplay <= 0 {
		s.historyDisplay = defaultHistoryDisplay
	}
	return s
}

// Seed replaces the weather table and rebuilds the facts list.
func (s *Service) Seed(ctx context.Context, data SeedData) error {
	reports := make(map[string]string, len(data.Weather))
	for city, report := range data.Weather {
		reports[NormalizeCity(city)] = report
	}
	if err := s.store.ResetWeather(ctx, reports); err != nil {
		return fmt.Errorf("seed weather: %w", err)
	}
	if err := s.store.ResetFacts(ctx, data.Facts); err != nil {
		return fmt.Errorf("seed facts: %w", err)
	}
	s.log.Debug().Int("cities", len(data.Weather)).Int("facts", len(data.Facts)).Msg("seed data loaded")
	return nil
}

// SaveProfile stores p, overwriting any previous profile for the same username.
func (s *Service) SaveProfile(ctx context.Context, p store.Profile) error {
	if p.Username == "" || p.Age == "" || p.Gender == "" || p.Location == "" {
		return ErrInvalidProfile
	}
	return s.store.SaveProfile(ctx, p)
}

// Profile returns the stored profile or ErrUserNotFound.
func (s *Service) Profile(ctx context.Context, username string) (*store.Profile, error) {
	p, err := s.store.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}

// Publish formats text from sender, publishes it to channel and records it in
// the channel history. Membership is not required. Returns the formatted line.
func (s *Service) Publish(ctx context.Context, from, channel, text string) (string, error) {
	line := FormatMessage(s.now(), from, text)

	receivers, err := s.store.Publish(ctx, channel, line)
	if err != nil {
		return "", err
	}
	if err := s.store.AppendHistory(ctx, channel, line, s.historyLimit); err != nil {
		return "", err
	}

	s.metrics.Published(metrics.KindPublic)
	s.log.Debug().Str("channel", channel).Str("from", from).Int64("receivers", receivers).Msg("message published")
	return line, nil
}

// PublishPrivate sends a direct message to recipient's private channel.
// No history is kept for private messages.
func (s *Service) PublishPrivate(ctx context.Context, from, recipient, text string) (string, error) {
	exists, err := s.store.ProfileExists(ctx, recipient)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUserNotFound
	}

	line := FormatPrivateMessage(s.now(), from, text)
	if _, err := s.store.Publish(ctx, PrivateChannel(recipient), line); err != nil {
		return "", err
	}

	s.metrics.Published(metrics.KindPrivate)
	s.log.Debug().Str("to", recipient).Str("from", from).Msg("private message published")
	return line, nil
}

// History returns up to count recent entries of channel, oldest first.
// count <= 0 selects the display default; count is capped at the history limit.
func (s *Service) History(ctx context.Context, channel string, count int) ([]string, error) {
	if count <= 0 {
		count = s.historyDisplay
	}
	if count > s.historyLimit {
		count = s.historyLimit
	}

	entries, err := s.store.RecentHistory(ctx, channel, count)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Weather looks up a city case-insensitively.
func (s *Service) Weather(ctx context.Context, city string) (string, error) {
	report, err := s.store.GetWeather(ctx, NormalizeCity(city))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrWeatherNotFound
		}
		return "", err
	}
	return report, nil
}

// Fact returns a uniformly random entry of the facts list.
func (s *Service) Fact(ctx context.Context) (string, error) {
	n, err := s.store.FactCount(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNoFacts
	}

	fact, err := s.store.FactAt(ctx, s.randN(n))
	if err != nil {
		// The list shrank between LLEN and LINDEX.
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNoFacts
		}
		return "", err
	}
	return fact, nil
}
