package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/hexsim/internal/game"
	"github.com/talgya/hexsim/internal/persistence"
)

var replayCmd = &cobra.Command{
	Use:   "replay [game-id]",
	Short: "Replay a stored command log and check it against the saved snapshot",
	Long: `Rebuilds a stored game from its initial snapshot and command log and
compares the result with the latest saved snapshot. Without a game ID the
most recently saved game is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := persistence.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		id := ""
		if len(args) == 1 {
			id = args[0]
		} else if id, err = db.GetMeta("last_game"); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				return fmt.Errorf("no saved games in %s", cfg.DBPath)
			}
			return err
		}

		e, err := db.LoadSession(id)
		if err != nil {
			return err
		}
		saved, err := db.LatestSnapshot(id)
		if err != nil {
			return err
		}

		replayed, err := game.Marshal(e.State())
		if err != nil {
			return err
		}
		want, err := game.Marshal(saved)
		if err != nil {
			return err
		}
		if !bytes.Equal(replayed, want) {
			slog.Error("replay diverged", "game", id, "replayed_sequence", e.State().Sequence, "saved_sequence", saved.Sequence)
			return fmt.Errorf("replay of %s does not match the saved snapshot", id)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "replayed %s commands of %s: matches saved state (%s)\n",
			humanize.Comma(int64(len(e.History()))), id, humanize.Bytes(uint64(len(want))))
		printStats(cmd.OutOrStdout(), e.State(), len(e.History()))
		return nil
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List stored games",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := persistence.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		games, err := db.Games()
		if err != nil {
			return err
		}
		for _, g := range games {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  seed %d, %d players, radius %d, saved %s\n",
				g.ID, g.Seed, g.Players, g.Radius, g.CreatedAt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd, gamesCmd)
}
