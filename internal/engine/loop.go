package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/hexsim/internal/game"
)

// Controller decides the next command for one seat.
type Controller interface {
	Next(ctx context.Context, s *game.State) (game.Command, error)
}

// ControllerFunc adapts a plain function to Controller.
type ControllerFunc func(ctx context.Context, s *game.State) (game.Command, error)

func (f ControllerFunc) Next(ctx context.Context, s *game.State) (game.Command, error) {
	return f(ctx, s)
}

// maxCommandsPerTurn caps how long one seat may hold the turn in Run.
const maxCommandsPerTurn = 256

// Run drives the session until the game ends, maxTurns rounds have been
// played (0 means no limit) or ctx is done. A game still in setup is
// started first. When a controller's command is rejected, or it keeps the
// turn too long, Run ends the turn on its behalf.
func (e *Engine) Run(ctx context.Context, seats map[game.PlayerID]Controller, maxTurns int) error {
	s := e.State()
	slog.Info("session started", "game", s.ID, "turn", s.Turn, "players", len(s.Players))

	if s.Phase == game.PhaseSetup {
		if _, err := e.Dispatch(game.StartGame{}); err != nil {
			return fmt.Errorf("starting game: %w", err)
		}
	}

	held := 0
	holder := game.PlayerID("")
	for {
		s = e.State()
		if s.Phase == game.PhaseGameOver {
			return nil
		}
		if maxTurns > 0 && s.Turn > maxTurns {
			slog.Info("session stopped at turn limit", "game", s.ID, "turn", s.Turn)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cur := s.CurrentPlayer().ID
		if cur != holder {
			holder, held = cur, 0
		}
		ctrl, ok := seats[cur]
		if !ok {
			return fmt.Errorf("no controller for %s", cur)
		}

		var cmd game.Command = game.EndTurn{Player: cur}
		if held < maxCommandsPerTurn {
			next, err := ctrl.Next(ctx, s)
			if err != nil {
				return fmt.Errorf("controller for %s: %w", cur, err)
			}
			cmd = next
		} else {
			slog.Warn("seat held the turn too long, ending it", "player", cur, "commands", held)
		}
		held++

		if _, err := e.Dispatch(cmd); err != nil {
			slog.Warn("command rejected, ending turn", "player", cur, "err", err)
			if _, err := e.Dispatch(game.EndTurn{Player: cur}); err != nil {
				return fmt.Errorf("ending turn for %s: %w", cur, err)
			}
		}

		if e.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.Interval):
			}
		}
	}
}
