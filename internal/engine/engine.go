// Package engine hosts a game session: it owns the authoritative state,
// feeds commands through the reducer and keeps the command log that replays
// the game from its initial state.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/talgya/hexsim/internal/game"
)

// Engine drives one game session.
type Engine struct {
	mu      sync.RWMutex
	initial *game.State
	state   *game.State
	history []game.Command

	// Interval paces Run between commands. Zero runs flat out.
	Interval time.Duration

	// Callbacks, populated during setup. They run on the dispatching
	// goroutine after the new state is in place.
	OnCommand  func(cmd game.Command, s *game.State) // every applied command
	OnTurn     func(s *game.State)                   // the turn passed to another player
	OnGameOver func(s *game.State)
	OnError    func(cmd game.Command, err error) // every rejected command
}

// New creates an engine holding initial.
func New(initial *game.State) *Engine {
	return &Engine{initial: initial, state: initial}
}

// Restore rebuilds an engine from an initial state and its command log.
func Restore(initial *game.State, cmds []game.Command) (*Engine, error) {
	s, err := Replay(initial, cmds)
	if err != nil {
		return nil, err
	}
	return &Engine{initial: initial, state: s, history: slices.Clone(cmds)}, nil
}

// State returns the current state. States are immutable, so the caller may
// keep it as long as it likes.
func (e *Engine) State() *game.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Initial returns the state the session started from.
func (e *Engine) Initial() *game.State {
	return e.initial
}

// History returns the applied commands in order.
func (e *Engine) History() []game.Command {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.history)
}

// Dispatch applies cmd. On rejection the state is unchanged and the
// reducer's error is returned.
func (e *Engine) Dispatch(cmd game.Command) (*game.State, error) {
	if cmd == nil {
		return e.State(), errors.New("engine: nil command")
	}

	e.mu.Lock()
	prev := e.state
	next, err := game.Apply(prev, cmd)
	if err == nil {
		e.state = next
		e.history = append(e.history, cmd)
	}
	e.mu.Unlock()

	if err != nil {
		slog.Debug("command rejected", "type", cmd.Type(), "actor", cmd.Actor(), "err", err)
		if e.OnError != nil {
			e.OnError(cmd, err)
		}
		return prev, err
	}

	slog.Debug("command applied", "type", cmd.Type(), "actor", cmd.Actor(), "seq", next.Sequence)
	if e.OnCommand != nil {
		e.OnCommand(cmd, next)
	}

	turnPassed := next.Phase == game.PhasePlaying &&
		(prev.Phase != game.PhasePlaying || next.CurrentPlayerIndex != prev.CurrentPlayerIndex || next.Turn != prev.Turn)
	if turnPassed {
		if next.Turn != prev.Turn && next.CurrentPlayerIndex == 0 {
			logRound(next)
		}
		if e.OnTurn != nil {
			e.OnTurn(next)
		}
	}

	if next.Phase == game.PhaseGameOver && prev.Phase != game.PhaseGameOver {
		slog.Info("game over", "game", next.ID, "winner", next.Winner, "turn", next.Turn)
		if e.OnGameOver != nil {
			e.OnGameOver(next)
		}
	}
	return next, nil
}

// Replay re-applies a command log to initial. Every command must succeed:
// the log only ever holds applied commands, so a rejection means the log
// and the initial state do not belong together.
func Replay(initial *game.State, cmds []game.Command) (*game.State, error) {
	s := initial
	for i, c := range cmds {
		next, err := game.Apply(s, c)
		if err != nil {
			return s, fmt.Errorf("replaying command %d: %w", i, err)
		}
		s = next
	}
	return s, nil
}
