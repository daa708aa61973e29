package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/hexsim/internal/world"
)

var genFlags struct {
	seed    int64
	size    string
	players int
	width   int
	height  int
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a map and print its summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := world.DefaultGenParams()
		params.Seed = genFlags.seed
		params.MapSize = world.MapSize(genFlags.size)
		params.PlayerCount = genFlags.players
		params.Width = genFlags.width
		params.Height = genFlags.height

		gen, err := world.Generate(params)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		m := gen.Map
		fmt.Fprintf(out, "seed %d: radius %d, %s tiles\n", params.Seed, m.Radius, humanize.Comma(int64(m.TileCount())))

		counts := world.TerrainCounts(m)
		for _, t := range world.AllTerrains {
			share := 100 * float64(counts[t]) / float64(m.TileCount())
			fmt.Fprintf(out, "  %-9s %6s  %s%%\n", t, humanize.Comma(int64(counts[t])), humanize.FtoaWithDigits(share, 1))
		}

		resources := 0
		for _, c := range m.Coords() {
			resources += len(m.Get(c).Resources)
		}
		fmt.Fprintf(out, "resources %s, villages %d, ruins %d\n", humanize.Comma(int64(resources)), len(gen.Villages), len(gen.Ruins))
		for i, c := range gen.StartPositions {
			fmt.Fprintf(out, "  %s start at %s\n", humanize.Ordinal(i+1), c)
		}
		if len(gen.Overrides) > 0 {
			fmt.Fprintf(out, "  %d start tiles forced to plains\n", len(gen.Overrides))
		}
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.Int64Var(&genFlags.seed, "seed", 42, "generation seed")
	f.StringVar(&genFlags.size, "size", string(world.MapNormal), "map size preset (tiny, small, normal, large, huge)")
	f.IntVar(&genFlags.players, "players", 2, "number of players")
	f.IntVar(&genFlags.width, "width", 0, "explicit width, overrides --size with --height")
	f.IntVar(&genFlags.height, "height", 0, "explicit height, overrides --size with --width")
	rootCmd.AddCommand(generateCmd)
}
