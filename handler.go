package poke

import (
	"context"
	"fmt"
	"sync"
)

// CommandHandler handles one command type on a CommandBus.
type CommandHandler interface {
	CommandType() string
	Handle(ctx context.Context, cmd Command) (CommandResult, error)
}

// CommandHandlerFunc adapts a function to CommandHandler.
type CommandHandlerFunc struct {
	cmdType string
	fn      func(ctx context.Context, cmd Command) (CommandResult, error)
}

// NewCommandHandlerFunc creates a new CommandHandlerFunc.
func NewCommandHandlerFunc(cmdType string, fn func(ctx context.Context, cmd Command) (CommandResult, error)) *CommandHandlerFunc {
	return &CommandHandlerFunc{cmdType: cmdType, fn: fn}
}

// CommandType returns the command type this handler processes.
func (h *CommandHandlerFunc) CommandType() string {
	return h.cmdType
}

// Handle processes the command.
func (h *CommandHandlerFunc) Handle(ctx context.Context, cmd Command) (CommandResult, error) {
	return h.fn(ctx, cmd)
}

// HandlerRegistry maps command types to handlers.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

// NewHandlerRegistry creates a new HandlerRegistry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]CommandHandler)}
}

// Register adds handler, replacing any handler of the same command type.
func (r *HandlerRegistry) Register(handler CommandHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[handler.CommandType()] = handler
}

// Get returns the handler for cmdType, or nil.
func (r *HandlerRegistry) Get(cmdType string) CommandHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[cmdType]
}

// Has reports whether a handler is registered for cmdType.
func (r *HandlerRegistry) Has(cmdType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[cmdType]
	return ok
}

// Count returns the number of registered handlers.
func (r *HandlerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Decider turns a command into the events it causes, given the current state.
// It returns an error instead of events when the command is not allowed.
// Deciders may call read-only collaborators but never write.
type Decider[S, E, C any] interface {
	Decide(ctx context.Context, state State[S], cmd C) ([]E, error)
}

// DeciderFuncs builds a Decider from one function per state phase. First
// handles commands sent to an aggregate that has no events yet; Next handles
// commands sent to an existing one. A nil function rejects every command of
// its phase with ErrUnsupportedCommand.
type DeciderFuncs[S, E, C any] struct {
	First func(ctx context.Context, cmd C) ([]E, error)
	Next  func(ctx context.Context, state S, cmd C) ([]E, error)
}

// ErrUnsupportedCommand is returned by DeciderFuncs for a missing phase.
var ErrUnsupportedCommand = fmt.Errorf("%w: command not supported in this state", ErrDomainRule)

// Decide implements Decider.
func (f DeciderFuncs[S, E, C]) Decide(ctx context.Context, state State[S], cmd C) ([]E, error) {
	if current, ok := state.Get(); ok {
		if f.Next == nil {
			return nil, ErrUnsupportedCommand
		}
		return f.Next(ctx, current, cmd)
	}
	if f.First == nil {
		return nil, ErrUnsupportedCommand
	}
	return f.First(ctx, cmd)
}
