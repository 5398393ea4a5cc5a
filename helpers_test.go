package poke

import (
	"context"
	"errors"
	"fmt"

	"github.com/AshkanYarmoradi/go-poke/adapters/memory"
)

// A small gym aggregate used to exercise the kernel.

type gym struct {
	Leader string
	Badges []string
}

type gymEvent interface{ isGymEvent() }

type GymOpened struct {
	Leader string `json:"leader"`
}

type BadgeAwarded struct {
	Trainer string `json:"trainer"`
}

func (GymOpened) isGymEvent()    {}
func (BadgeAwarded) isGymEvent() {}

type gymCommand interface {
	StreamCommand
	isGymCommand()
}

type openGym struct {
	CommandBase
	Name   string
	Leader string
}

type awardBadge struct {
	CommandBase
	Name    string
	Trainer string
}

func (openGym) CommandType() string    { return "OpenGym" }
func (c openGym) SourceID() string     { return c.Name }
func (openGym) isGymCommand()          {}
func (awardBadge) CommandType() string { return "AwardBadge" }
func (c awardBadge) SourceID() string  { return c.Name }
func (awardBadge) isGymCommand()       {}

func (c openGym) Validate() error {
	if c.Leader == "" {
		return NewValidationError(c.CommandType(), "Leader", "required")
	}
	return nil
}

func (c awardBadge) Validate() error {
	if c.Trainer == "" {
		return NewValidationError(c.CommandType(), "Trainer", "required")
	}
	return nil
}

var (
	errGymAlreadyOpen = NewDomainError("Gym", "gym_already_open", "gym already open")
	errGymClosed      = NewDomainError("Gym", "gym_closed", "gym is not open")
	errDuplicateBadge = NewDomainError("Gym", "duplicate_badge", "badge already awarded")
)

var gymAggregate = AggregateFuncs[gym, gymEvent]{
	First: func(e gymEvent) (gym, error) {
		opened, ok := e.(GymOpened)
		if !ok {
			return gym{}, errGymClosed
		}
		return gym{Leader: opened.Leader}, nil
	},
	Next: func(g gym, e gymEvent) (gym, error) {
		switch e := e.(type) {
		case GymOpened:
			return g, errGymAlreadyOpen
		case BadgeAwarded:
			for _, b := range g.Badges {
				if b == e.Trainer {
					return g, errDuplicateBadge
				}
			}
			badges := make([]string, len(g.Badges), len(g.Badges)+1)
			copy(badges, g.Badges)
			g.Badges = append(badges, e.Trainer)
			return g, nil
		default:
			return g, fmt.Errorf("unknown event %T", e)
		}
	},
}

var gymDecider = DeciderFuncs[gym, gymEvent, gymCommand]{
	First: func(ctx context.Context, cmd gymCommand) ([]gymEvent, error) {
		switch c := cmd.(type) {
		case openGym:
			return []gymEvent{GymOpened{Leader: c.Leader}}, nil
		default:
			return nil, errGymClosed
		}
	},
	Next: func(ctx context.Context, g gym, cmd gymCommand) ([]gymEvent, error) {
		switch c := cmd.(type) {
		case openGym:
			return nil, errGymAlreadyOpen
		case awardBadge:
			for _, b := range g.Badges {
				if b == c.Trainer {
					return nil, nil
				}
			}
			return []gymEvent{BadgeAwarded{Trainer: c.Trainer}}, nil
		default:
			return nil, errors.New("unknown command")
		}
	},
}

func newGymStore() (*EventStore, *memory.MemoryAdapter) {
	adapter := memory.NewAdapter()
	store := New(adapter)
	store.RegisterEvents(GymOpened{}, BadgeAwarded{})
	return store, adapter
}

func newGymDispatcher(opts ...DispatcherOption) (*Dispatcher[gym, gymEvent, gymCommand], *memory.MemoryAdapter) {
	store, adapter := newGymStore()
	typed := NewTypedStore[gymEvent](store)
	return NewDispatcher[gym, gymEvent, gymCommand]("Gym", typed, gymAggregate, gymDecider, opts...), adapter
}

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Debug(msg string, _ ...interface{}) {
	l.entries = append(l.entries, "debug:"+msg)
}
func (l *recordingLogger) Info(msg string, _ ...interface{}) {
	l.entries = append(l.entries, "info:"+msg)
}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.entries = append(l.entries, "warn:"+msg)
}
func (l *recordingLogger) Error(msg string, _ ...interface{}) {
	l.entries = append(l.entries, "error:"+msg)
}
