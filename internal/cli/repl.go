package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/core"
)

// REPL reads commands line by line and runs them against a session.
// Before every prompt it drains at most one pending delivery.
type REPL struct {
	sess *core.Session
	in   io.Reader
	out  io.Writer
	log  *zerolog.Logger
}

// New builds a REPL over sess.
func New(sess *core.Session, in io.Reader, out io.Writer, logger *zerolog.Logger) *REPL {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &REPL{sess: sess, in: in, out: out, log: logger}
}

// Run prints the introduction and loops until quit, end of input, context
// cancellation, or a store failure (returned).
func (r *REPL) Run(ctx context.Context) error {
	printIntro(r.out)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := r.pollOne(ctx); err != nil {
			return err
		}
		fmt.Fprint(r.out, prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-readErr:
				default:
				}
				if err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				fmt.Fprintln(r.out, "Goodbye!")
				return nil
			}
			quit, err := r.Execute(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (r *REPL) pollOne(ctx context.Context) error {
	ev, err := r.sess.Poll(ctx)
	if err != nil {
		return err
	}
	if ev != nil {
		printEvent(r.out, ev)
	}
	return nil
}

// Execute parses and runs one input line. It reports whether the user asked
// to quit. Domain errors are printed; only store failures are returned.
func (r *REPL) Execute(ctx context.Context, line string) (bool, error) {
	cmd, err := core.Parse(line)
	if err != nil {
		var usageErr *core.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(r.out, usageErr.Usage)
			return false, nil
		}
		return false, err
	}

	r.log.Debug().Stringer("command", cmd.Kind).Msg("dispatch")

	switch cmd.Kind {
	case core.CommandEmpty:
		return false, nil

	case core.CommandUnknown:
		fmt.Fprintln(r.out, "Unknown command")
		return false, nil

	case core.CommandQuit:
		fmt.Fprintln(r.out, "Goodbye!")
		return true, nil

	case core.CommandHelp:
		printIntro(r.out)
		return false, nil

	case core.CommandIdentify:
		private, err := r.sess.Identify(ctx, cmd.Profile)
		if err != nil {
			return false, r.report(err, cmd)
		}
		fmt.Fprintf(r.out, "Listening for private messages on %s\n", private)
		fmt.Fprintf(r.out, "User %s identified successfully\n", cmd.Profile.Username)
		return false, nil

	case core.CommandJoin:
		if _, err := r.sess.Join(ctx, cmd.Channel); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Joined channel: %s\n", cmd.Channel)
		return false, nil

	case core.CommandLeave:
		if _, err := r.sess.Leave(ctx, cmd.Channel); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "Left channel: %s\n", cmd.Channel)
		return false, nil

	case core.CommandSend:
		if _, err := r.sess.Send(ctx, cmd.Channel, cmd.Text); err != nil {
			return false, r.report(err, cmd)
		}
		fmt.Fprintf(r.out, "Message sent to %s\n", cmd.Channel)
		return false, nil

	case core.CommandDirect:
		if err := r.sess.SendPrivate(ctx, cmd.Target, cmd.Text); err != nil {
			return false, r.report(err, cmd)
		}
		fmt.Fprintf(r.out, "Private message sent to %s\n", cmd.Target)
		return false, nil

	case core.CommandChannels:
		printChannels(r.out, r.sess.Channels())
		return false, nil

	case core.CommandHistory:
		entries, err := r.sess.History(ctx, cmd.Channel, cmd.Count)
		if err != nil {
			return false, err
		}
		printHistory(r.out, cmd.Channel, entries)
		return false, nil

	case core.CommandWhoami:
		p, err := r.sess.Whoami(ctx)
		if err != nil {
			return false, r.report(err, cmd)
		}
		printProfile(r.out, p)
		return false, nil

	case core.CommandWeather:
		report, err := r.sess.Weather(ctx, cmd.City)
		if err != nil {
			return false, r.report(err, cmd)
		}
		fmt.Fprintln(r.out, report)
		return false, nil

	case core.CommandFact:
		fact, err := r.sess.Fact(ctx)
		if err != nil {
			return false, r.report(err, cmd)
		}
		fmt.Fprintf(r.out, "Fun Fact: %s\n", fact)
		return false, nil

	default:
		return false, fmt.Errorf("unhandled command kind %v", cmd.Kind)
	}
}

// report prints the user-facing text for a domain error and swallows it.
// Anything else is a store failure and is passed through.
func (r *REPL) report(err error, cmd core.Command) error {
	switch {
	case errors.Is(err, core.ErrNotIdentified):
		fmt.Fprintln(r.out, "Please identify yourself first")
	case errors.Is(err, core.ErrAlreadyIdentified):
		fmt.Fprintf(r.out, "Already identified as %s; restart to switch users\n", r.sess.User())
	case errors.Is(err, core.ErrInvalidProfile):
		fmt.Fprintln(r.out, core.UsageIdentify)
	case errors.Is(err, core.ErrUserNotFound):
		fmt.Fprintf(r.out, "User %s not found\n", cmd.Target)
	case errors.Is(err, core.ErrProfileNotFound):
		fmt.Fprintln(r.out, "User information not found")
	case errors.Is(err, core.ErrWeatherNotFound):
		fmt.Fprintf(r.out, "Weather data not available for %s\n", cmd.City)
	case errors.Is(err, core.ErrNoFacts):
		fmt.Fprintln(r.out, "No facts available")
	default:
		r.log.Error().Err(err).Stringer("command", cmd.Kind).Msg("command failed")
		return err
	}
	return nil
}
