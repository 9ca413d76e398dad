package core

// EventKind tells the front end how to render a delivery.
type EventKind int

const (
	// EventChannelMessage is a message published to a joined channel.
	EventChannelMessage EventKind = iota
	// EventPrivateMessage is a message on the session's private channel.
	EventPrivateMessage
)

// Event is one delivery surfaced by a poll.
type Event struct {
	Kind    EventKind
	Channel string
	Text    string
}

func eventFromDelivery(channel, payload string) *Event {
	kind := EventChannelMessage
	if IsPrivateChannel(channel) {
		kind = EventPrivateMessage
	}
	return &Event{Kind: kind, Channel: channel, Text: payload}
}
