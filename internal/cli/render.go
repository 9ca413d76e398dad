package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovakirdan/redischat/internal/core"
	"github.com/vovakirdan/redischat/internal/store"
)

const intro = `
Welcome to Redis Chatbot!
Available commands:
- identify <username> <age> <gender> <location>: Set your user profile
- join <channel>: Join a chat channel
- leave <channel>: Leave a chat channel
- send <channel> <message>: Send a message to a channel
- dm <username> <message>: Send private message
- !help: List of commands
- !weather <city>: Weather update for a city
- !fact: Random fun fact
- !whoami: Your user information
- !channels: Show your active channels
- !history <channel> [count]: Show message history
- quit: Exit the chatbot

Start by identifying yourself, then join a channel to chat!
`

const (
	prompt      = "> "
	bannerWidth = 40
)

func printIntro(w io.Writer) {
	fmt.Fprint(w, intro+"\n")
}

func printEvent(w io.Writer, ev *core.Event) {
	switch ev.Kind {
	case core.EventPrivateMessage:
		fmt.Fprintln(w, "\n*** PRIVATE MESSAGE ***")
		fmt.Fprintln(w, ev.Text)
		fmt.Fprintln(w, strings.Repeat("*", bannerWidth)+"\n")
	default:
		fmt.Fprintf(w, "[%s] %s\n", ev.Channel, ev.Text)
	}
}

func printProfile(w io.Writer, p *store.Profile) {
	fmt.Fprintf(w, "Username: %s, Age: %s, Gender: %s, Location: %s\n", p.Username, p.Age, p.Gender, p.Location)
}

func printChannels(w io.Writer, channels []string) {
	if len(channels) == 0 {
		fmt.Fprintln(w, "You are not subscribed to any channels")
		return
	}
	fmt.Fprintln(w, "You are subscribed to:")
	for _, ch := range channels {
		fmt.Fprintf(w, "  - %s\n", ch)
	}
}

func printHistory(w io.Writer, channel string, entries []string) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No message history for %s\n", channel)
		return
	}
	fmt.Fprintf(w, "\n--- Last %d messages in %s ---\n", len(entries), channel)
	for _, e := range entries {
		fmt.Fprintln(w, e)
	}
	fmt.Fprintln(w, "---"+strings.Repeat("-", bannerWidth)+"\n")
}
