package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/hexsim/internal/engine"
	"github.com/talgya/hexsim/internal/game"
	"github.com/talgya/hexsim/internal/persistence"
	"github.com/talgya/hexsim/internal/world"
)

var playFlags struct {
	seed     int64
	size     string
	players  int
	turns    int
	limit    int
	factions []string
	interval time.Duration
	noSave   bool
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Let bots play a game and store the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := world.DefaultGenParams()
		params.Seed = playFlags.seed
		params.MapSize = world.MapSize(playFlags.size)
		params.PlayerCount = playFlags.players

		setup := game.Setup{
			Params: params,
			Rules: game.Rules{
				ForestBlocksSight: cfg.ForestBlocksSight,
				TurnLimit:         playFlags.limit,
			},
		}
		for _, f := range playFlags.factions {
			setup.Factions = append(setup.Factions, game.FactionID(f))
		}

		initial, _, err := game.New(setup)
		if err != nil {
			return err
		}
		slog.Info("game created", "game", initial.ID, "seed", params.Seed, "players", len(initial.Players), "radius", initial.Map.Radius)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		preview := engine.NewPreviewer(ctx, cfg.Workers)
		defer preview.Close()

		e := engine.New(initial)
		e.Interval = playFlags.interval
		e.OnGameOver = func(s *game.State) {
			slog.Info("winner decided", "winner", s.Winner, "turn", s.Turn)
		}

		seats := make(map[game.PlayerID]engine.Controller, len(initial.Players))
		for _, p := range initial.Players {
			seats[p.ID] = engine.NewBot(p.ID, preview)
		}

		runErr := e.Run(ctx, seats, playFlags.turns)
		if errors.Is(runErr, context.Canceled) {
			slog.Info("interrupted, saving what was played")
			runErr = nil
		}

		if !playFlags.noSave {
			if err := saveSession(e); err != nil {
				return err
			}
		}

		printStats(cmd.OutOrStdout(), e.State(), len(e.History()))
		return runErr
	},
}

func saveSession(e *engine.Engine) error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.SaveSession(e)
}

func printStats(w io.Writer, s *game.State, commands int) {
	fmt.Fprintf(w, "game %s: turn %d, %s commands, phase %s\n", s.ID, s.Turn, humanize.Comma(int64(commands)), s.Phase)
	if s.Winner != "" {
		fmt.Fprintf(w, "winner: %s\n", s.Winner)
	}
	for i, st := range engine.Stats(s) {
		status := ""
		if st.Eliminated {
			status = " (eliminated)"
		}
		fmt.Fprintf(w, "  %s seat %s [%s]%s: score %s, %d stars, %d cities, pop %d, %d units, %d techs, %s tiles explored\n",
			humanize.Ordinal(i+1), st.Player, st.Faction, status,
			humanize.Comma(int64(st.Score)), st.Stars, st.Cities, st.Population, st.Units, st.Techs,
			humanize.Comma(int64(st.Explored)))
	}
}

func init() {
	f := playCmd.Flags()
	f.Int64Var(&playFlags.seed, "seed", 42, "generation seed")
	f.StringVar(&playFlags.size, "size", string(world.MapSmall), "map size preset")
	f.IntVar(&playFlags.players, "players", 2, "number of bot players")
	f.IntVar(&playFlags.turns, "turns", 30, "stop after this many rounds (0 runs until game over)")
	f.IntVar(&playFlags.limit, "turn-limit", 0, "end the game by score after this many rounds")
	f.StringSliceVar(&playFlags.factions, "faction", nil, "faction per seat, in seat order")
	f.DurationVar(&playFlags.interval, "interval", 0, "pause between commands")
	f.BoolVar(&playFlags.noSave, "no-save", false, "do not store the session")
	rootCmd.AddCommand(playCmd)
}
