package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultDelay is how long the simulated backend takes to acknowledge a mutation.
const DefaultDelay = 500 * time.Millisecond

type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
	OpMove   OpKind = "move"
)

var opKinds = []OpKind{OpCreate, OpUpdate, OpDelete, OpMove}

// Op describes one mutation sent to the backend for acknowledgement.
type Op struct {
	Kind    OpKind
	TaskID  string
	ActorID string
}

// Backend is the effect boundary standing in for a server round trip.
// A nil error means the mutation is acknowledged and may be committed.
type Backend interface {
	Acknowledge(ctx context.Context, op Op) error
}

type BackendFunc func(ctx context.Context, op Op) error

func (f BackendFunc) Acknowledge(ctx context.Context, op Op) error { return f(ctx, op) }

var errSimulatedFailure = errors.New("simulated backend failure")

// SimulatedBackend waits Delay and then acknowledges, unless Fail selects the op.
type SimulatedBackend struct {
	Delay time.Duration
	Fail  func(Op) bool
}

func (b SimulatedBackend) Acknowledge(ctx context.Context, op Op) error {
	if b.Delay > 0 {
		t := time.NewTimer(b.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if b.Fail != nil && b.Fail(op) {
		return errSimulatedFailure
	}
	return nil
}

// Immediate acknowledges every op without waiting.
func Immediate() Backend { return SimulatedBackend{} }

// FailKinds returns a failure injector selecting every op of the given kinds.
func FailKinds(kinds ...OpKind) func(Op) bool {
	set := map[OpKind]bool{}
	for _, k := range kinds {
		set[k] = true
	}
	return func(op Op) bool { return set[op.Kind] }
}

// ParseOpKinds parses a comma separated list such as "move,delete". "all" selects every kind.
func ParseOpKinds(s string) ([]OpKind, error) {
	var out []OpKind
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if part == "all" {
			return append([]OpKind{}, opKinds...), nil
		}
		found := false
		for _, k := range opKinds {
			if string(k) == part {
				out = append(out, k)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown operation kind: %s", part)
		}
	}
	return out, nil
}
