package core

import (
	"strings"
	"time"
)

// PrivateChannelPrefix namespaces per-user private channels.
const PrivateChannelPrefix = "private:"

const timestampLayout = "15:04:05"

// PrivateChannel returns the channel a user listens on for direct messages.
func PrivateChannel(username string) string {
	return PrivateChannelPrefix + username
}

// IsPrivateChannel reports whether channel is a private channel.
func IsPrivateChannel(channel string) bool {
	return strings.HasPrefix(channel, PrivateChannelPrefix)
}

// FormatMessage renders a public message as "[HH:MM:SS] user: text".
func FormatMessage(at time.Time, from, text string) string {
	return "[" + at.Format(timestampLayout) + "] " + from + ": " + text
}

// FormatPrivateMessage renders a direct message as "[HH:MM:SS] [PRIVATE] user: text".
func FormatPrivateMessage(at time.Time, from, text string) string {
	return "[" + at.Format(timestampLayout) + "] [PRIVATE] " + from + ": " + text
}

// NormalizeCity turns user input into a weather key: lowercase, no whitespace.
func NormalizeCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), ""))
}
