package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("not found")

// Profile is the record kept for an identified user.
type Profile struct {
	Username string
	Age      string
	Gender   string
	Location string
}

// Delivery is one pub/sub message received on a subscription.
type Delivery struct {
	Channel string
	Payload string
}

// ProfileStore handles user profile persistence.
type ProfileStore interface {
	// SaveProfile writes all profile fields, overwriting any previous values.
	SaveProfile(ctx context.Context, p Profile) error

	// GetProfile reads a profile; returns ErrNotFound if absent.
	GetProfile(ctx context.Context, username string) (*Profile, error)

	// ProfileExists reports whether a profile record exists.
	ProfileExists(ctx context.Context, username string) (bool, error)
}

// LookupStore handles the static lookup tables.
type LookupStore interface {
	// ResetWeather replaces the whole weather table; keys not in reports are removed.
	ResetWeather(ctx context.Context, reports map[string]string) error

	// GetWeather returns ErrNotFound for unknown cities.
	GetWeather(ctx context.Context, city string) (string, error)

	// ResetFacts replaces the whole facts list.
	ResetFacts(ctx context.Context, facts []string) error

	// FactCount returns the length of the facts list.
	FactCount(ctx context.Context) (int64, error)

	// FactAt returns the fact at index; ErrNotFound when out of range.
	FactAt(ctx context.Context, index int64) (string, error)
}

// HistoryStore handles capped per-channel message logs.
type HistoryStore interface {
	// AppendHistory prepends entry to the channel log and trims it to limit entries.
	AppendHistory(ctx context.Context, channel, entry string, limit int) error

	// RecentHistory returns up to count entries, newest first.
	RecentHistory(ctx context.Context, channel string, count int) ([]string, error)
}

// PubSub publishes messages and opens subscriptions.
type PubSub interface {
	// Publish sends text to channel and returns the number of receivers.
	Publish(ctx context.Context, channel, text string) (int64, error)

	// Subscribe opens a subscription with no channels yet.
	Subscribe(ctx context.Context) Subscription
}

// Subscription is a single subscriber connection.
type Subscription interface {
	// Subscribe adds channels and waits for the store to confirm them.
	Subscribe(ctx context.Context, channels ...string) error

	// Unsubscribe removes channels and waits for the store to confirm them.
	Unsubscribe(ctx context.Context, channels ...string) error

	// Poll returns the next pending delivery without blocking, or nil if none.
	Poll(ctx context.Context) (*Delivery, error)

	// Receive blocks until a delivery arrives or the subscription is closed.
	Receive(ctx context.Context) (*Delivery, error)

	// Close releases the subscriber connection.
	Close() error
}

// Store aggregates all storage interfaces.
type Store interface {
	ProfileStore
	LookupStore
	HistoryStore
	PubSub

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close closes the underlying connection pool.
	Close() error
}
