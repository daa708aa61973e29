package engine

import (
	"log/slog"

	"github.com/talgya/hexsim/internal/game"
)

// PlayerStats is a per-player summary of a state.
type PlayerStats struct {
	Player     game.PlayerID  `json:"player"`
	Faction    game.FactionID `json:"faction"`
	Stars      int            `json:"stars"`
	Cities     int            `json:"cities"`
	Population int            `json:"population"`
	Units      int            `json:"units"`
	Techs      int            `json:"techs"`
	Explored   int            `json:"explored"`
	Score      int            `json:"score"`
	Eliminated bool           `json:"eliminated"`
}

// Stats summarizes every player in seat order.
func Stats(s *game.State) []PlayerStats {
	out := make([]PlayerStats, 0, len(s.Players))
	for _, p := range s.Players {
		st := PlayerStats{
			Player:     p.ID,
			Faction:    p.Faction,
			Stars:      p.Stars,
			Cities:     len(p.CitiesOwned),
			Units:      len(s.UnitsOf(p.ID)),
			Techs:      len(p.ResearchedTechs),
			Score:      s.Score(p.ID),
			Eliminated: p.IsEliminated,
		}
		for _, id := range p.CitiesOwned {
			if c, ok := s.City(id); ok {
				st.Population += c.Population
			}
		}
		for _, c := range s.Map.Coords() {
			if s.Map.Get(c).IsExploredBy(p.ID) {
				st.Explored++
			}
		}
		out = append(out, st)
	}
	return out
}

// logRound writes the per-round report.
func logRound(s *game.State) {
	for _, st := range Stats(s) {
		slog.Info("round report",
			"game", s.ID,
			"turn", s.Turn,
			"player", st.Player,
			"stars", st.Stars,
			"cities", st.Cities,
			"units", st.Units,
			"techs", st.Techs,
			"explored", st.Explored,
			"score", st.Score,
			"eliminated", st.Eliminated,
		)
	}
}
