package cqrs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
)

type renameThing struct{ Name string }

func (renameThing) CommandName() string { return "thing.rename" }

type otherCmd struct{}

func (otherCmd) CommandName() string { return "thing.rename" } // same name, wrong type

type getThing struct{ ID string }

func (getThing) QueryName() string { return "thing.get" }

func TestDispatch(t *testing.T) {
	bus := cqrs.NewBus()
	err := bus.RegisterCommand("thing.rename", cqrs.CommandFunc(func(_ context.Context, cmd renameThing) (any, error) {
		return "renamed to " + cmd.Name, nil
	}))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := bus.Dispatch(context.Background(), renameThing{Name: "x"})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res != "renamed to x" {
		t.Fatalf("unexpected result %v", res)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	bus := cqrs.NewBus()
	_, err := bus.Dispatch(context.Background(), renameThing{})
	if !errors.Is(err, cqrs.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	bus := cqrs.NewBus()
	h := cqrs.CommandFunc(func(_ context.Context, cmd renameThing) (any, error) { return nil, nil })
	if err := bus.RegisterCommand("thing.rename", h); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := bus.RegisterCommand("thing.rename", h); err == nil {
		t.Fatal("duplicate registration must fail")
	}
}

func TestPayloadTypeMismatch(t *testing.T) {
	bus := cqrs.NewBus()
	bus.MustRegisterCommand("thing.rename", cqrs.CommandFunc(func(_ context.Context, cmd renameThing) (any, error) {
		return nil, nil
	}))
	_, err := bus.Dispatch(context.Background(), otherCmd{})
	if !errors.Is(err, cqrs.ErrNotRegistered) {
		t.Fatalf("expected wiring error, got %v", err)
	}
}

func TestAsk(t *testing.T) {
	bus := cqrs.NewBus()
	bus.MustRegisterQuery("thing.get", cqrs.QueryFunc(func(_ context.Context, q getThing) (any, error) {
		return map[string]string{"id": q.ID}, nil
	}))

	res, err := bus.Ask(context.Background(), getThing{ID: "42"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if res.(map[string]string)["id"] != "42" {
		t.Fatalf("unexpected result %v", res)
	}

	_, err = bus.Ask(context.Background(), getThing{})
	if err != nil {
		t.Fatalf("second ask: %v", err)
	}
}

func TestAskUnknownQuery(t *testing.T) {
	bus := cqrs.NewBus()
	_, err := bus.Ask(context.Background(), getThing{})
	if !errors.Is(err, cqrs.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestHandlerErrorPropagates(t *testing.T) {
	bus := cqrs.NewBus()
	boom := errors.New("boom")
	bus.MustRegisterCommand("thing.rename", cqrs.CommandFunc(func(_ context.Context, cmd renameThing) (any, error) {
		return nil, boom
	}))
	_, err := bus.Dispatch(context.Background(), renameThing{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
