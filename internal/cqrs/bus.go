// Package cqrs routes typed commands and queries to their registered
// handlers. The two channels are disjoint: commands mutate and return a
// minimal result, queries read and return projections. Dispatch is a static
// table lookup; an unknown type is a wiring error, not a domain condition.
package cqrs

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotRegistered means no handler is wired for a command or query name.
// This is a startup misconfiguration, never a runtime domain error.
var ErrNotRegistered = errors.New("no handler registered")

// Command is a named, immutable intent to mutate state.
type Command interface {
	CommandName() string
}

// Query is a named, immutable read intent. Handlers must not mutate state.
type Query interface {
	QueryName() string
}

// CommandHandler executes one command type.
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) (any, error)
}

// QueryHandler answers one query type.
type QueryHandler interface {
	Answer(ctx context.Context, q Query) (any, error)
}

// Bus holds the command and query routing tables. Register everything during
// startup, then treat the bus as read-only; Dispatch and Ask are safe for
// concurrent use once registration is done.
type Bus struct {
	commands map[string]CommandHandler
	queries  map[string]QueryHandler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		commands: make(map[string]CommandHandler),
		queries:  make(map[string]QueryHandler),
	}
}

// RegisterCommand wires a handler for one command name. Registering the same
// name twice is a wiring error.
func (b *Bus) RegisterCommand(name string, h CommandHandler) error {
	if _, dup := b.commands[name]; dup {
		return fmt.Errorf("command %q already registered", name)
	}
	b.commands[name] = h
	return nil
}

// RegisterQuery wires a handler for one query name.
func (b *Bus) RegisterQuery(name string, h QueryHandler) error {
	if _, dup := b.queries[name]; dup {
		return fmt.Errorf("query %q already registered", name)
	}
	b.queries[name] = h
	return nil
}

// Dispatch routes a command to its handler.
func (b *Bus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	h, ok := b.commands[cmd.CommandName()]
	if !ok {
		return nil, fmt.Errorf("command %q: %w", cmd.CommandName(), ErrNotRegistered)
	}
	return h.Handle(ctx, cmd)
}

// Ask routes a query to its handler.
func (b *Bus) Ask(ctx context.Context, q Query) (any, error) {
	h, ok := b.queries[q.QueryName()]
	if !ok {
		return nil, fmt.Errorf("query %q: %w", q.QueryName(), ErrNotRegistered)
	}
	return h.Answer(ctx, q)
}

// CommandFunc lifts a typed handler func into a CommandHandler. A payload of
// the wrong concrete type is a wiring error.
func CommandFunc[C Command](fn func(ctx context.Context, cmd C) (any, error)) CommandHandler {
	return commandFunc[C]{fn}
}

type commandFunc[C Command] struct {
	fn func(ctx context.Context, cmd C) (any, error)
}

func (h commandFunc[C]) Handle(ctx context.Context, cmd Command) (any, error) {
	typed, ok := cmd.(C)
	if !ok {
		return nil, fmt.Errorf("command %q: payload type %T does not match handler: %w",
			cmd.CommandName(), cmd, ErrNotRegistered)
	}
	return h.fn(ctx, typed)
}

// QueryFunc lifts a typed handler func into a QueryHandler.
func QueryFunc[Q Query](fn func(ctx context.Context, q Q) (any, error)) QueryHandler {
	return queryFunc[Q]{fn}
}

type queryFunc[Q Query] struct {
	fn func(ctx context.Context, q Q) (any, error)
}

func (h queryFunc[Q]) Answer(ctx context.Context, q Query) (any, error) {
	typed, ok := q.(Q)
	if !ok {
		return nil, fmt.Errorf("query %q: payload type %T does not match handler: %w",
			q.QueryName(), q, ErrNotRegistered)
	}
	return h.fn(ctx, typed)
}

// MustRegisterCommand is RegisterCommand for startup wiring where a duplicate
// is unrecoverable.
func (b *Bus) MustRegisterCommand(name string, h CommandHandler) {
	if err := b.RegisterCommand(name, h); err != nil {
		panic(err)
	}
}

// MustRegisterQuery is RegisterQuery for startup wiring.
func (b *Bus) MustRegisterQuery(name string, h QueryHandler) {
	if err := b.RegisterQuery(name, h); err != nil {
		panic(err)
	}
}
