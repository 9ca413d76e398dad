package core

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/vovakirdan/redischat/internal/store"
)

// CommandKind describes what the user wants to do.
type CommandKind int

const (
	// CommandEmpty is a blank input line.
	CommandEmpty CommandKind = iota
	// CommandUnknown is input that matches no command.
	CommandUnknown
	// CommandQuit ends the session.
	CommandQuit
	// CommandIdentify stores a profile and sets the session identity.
	CommandIdentify
	// CommandJoin subscribes to a channel.
	CommandJoin
	// CommandLeave unsubscribes from a channel.
	CommandLeave
	// CommandSend publishes to a channel.
	CommandSend
	// CommandDirect sends a private message.
	CommandDirect
	// CommandHelp prints the introduction.
	CommandHelp
	// CommandChannels lists joined channels.
	CommandChannels
	// CommandFact prints a random fact.
	CommandFact
	// CommandWhoami prints the session's profile.
	CommandWhoami
	// CommandWeather looks up a city.
	CommandWeather
	// CommandHistory prints recent channel history.
	CommandHistory
)

var commandNames = map[CommandKind]string{
	CommandEmpty:    "empty",
	CommandUnknown:  "unknown",
	CommandQuit:     "quit",
	CommandIdentify: "identify",
	CommandJoin:     "join",
	CommandLeave:    "leave",
	CommandSend:     "send",
	CommandDirect:   "dm",
	CommandHelp:     "!help",
	CommandChannels: "!channels",
	CommandFact:     "!fact",
	CommandWhoami:   "!whoami",
	CommandWeather:  "!weather",
	CommandHistory:  "!history",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "CommandKind(" + strconv.Itoa(int(k)) + ")"
}

// Command represents one parsed input line. Only the fields relevant to Kind are set.
type Command struct {
	Kind    CommandKind
	Channel string
	Target  string
	Text    string
	City    string
	Count   int
	Profile store.Profile
}

// Usage strings for commands that take arguments.
const (
	UsageIdentify = "Usage: identify <username> <age> <gender> <location>"
	UsageJoin     = "Usage: join <channel>"
	UsageLeave    = "Usage: leave <channel>"
	UsageSend     = "Usage: send <channel> <message>"
	UsageDirect   = "Usage: dm <username> <message>"
	UsageWeather  = "Usage: !weather <city>"
	UsageHistory  = "Usage: !history <channel> [count]"
)

// UsageError reports a known command with missing or malformed arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return e.Usage
}

func usage(u string) (Command, error) {
	return Command{}, &UsageError{Usage: u}
}

// Parse turns one input line into a Command.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CommandEmpty}, nil
	}
	if strings.EqualFold(line, "quit") {
		return Command{Kind: CommandQuit}, nil
	}

	switch line {
	case "!help":
		return Command{Kind: CommandHelp}, nil
	case "!channels":
		return Command{Kind: CommandChannels}, nil
	case "!fact":
		return Command{Kind: CommandFact}, nil
	case "!whoami":
		return Command{Kind: CommandWhoami}, nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "identify":
		if len(fields) < 5 {
			return usage(UsageIdentify)
		}
		return Command{
			Kind: CommandIdentify,
			Profile: store.Profile{
				Username: fields[1],
				Age:      fields[2],
				Gender:   fields[3],
				Location: strings.Join(fields[4:], " "),
			},
		}, nil

	case "join":
		if len(fields) < 2 {
			return usage(UsageJoin)
		}
		return Command{Kind: CommandJoin, Channel: fields[1]}, nil

	case "leave":
		if len(fields) < 2 {
			return usage(UsageLeave)
		}
		return Command{Kind: CommandLeave, Channel: fields[1]}, nil

	case "send":
		parts := cutFields(line, 3)
		if len(parts) < 3 {
			return usage(UsageSend)
		}
		return Command{Kind: CommandSend, Channel: parts[1], Text: parts[2]}, nil

	case "dm":
		parts := cutFields(line, 3)
		if len(parts) < 3 {
			return usage(UsageDirect)
		}
		return Command{Kind: CommandDirect, Target: parts[1], Text: parts[2]}, nil

	case "!weather":
		parts := cutFields(line, 2)
		if len(parts) < 2 {
			return usage(UsageWeather)
		}
		return Command{Kind: CommandWeather, City: parts[1]}, nil

	case "!history":
		if len(fields) < 2 || len(fields) > 3 {
			return usage(UsageHistory)
		}
		cmd := Command{Kind: CommandHistory, Channel: fields[1]}
		if len(fields) == 3 {
			n, err := strconv.Atoi(fields[2])
			if err != nil || n <= 0 {
				return usage(UsageHistory)
			}
			cmd.Count = n
		}
		return cmd, nil
	}

	return Command{Kind: CommandUnknown}, nil
}

// cutFields splits s into at most n whitespace-separated parts; the last part
// keeps its inner spacing.
func cutFields(s string, n int) []string {
	var out []string
	for len(out) < n-1 {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return out
		}
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return append(out, s)
		}
		out = append(out, s[:i])
		s = s[i:]
	}
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
