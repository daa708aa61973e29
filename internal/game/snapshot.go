package game

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/hexsim/internal/world"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

// Snapshot is the plain-data form of a State.
type Snapshot struct {
	Version            int           `json:"version"`
	ID                 string        `json:"id"`
	Seed               int64         `json:"seed"`
	Radius             int           `json:"radius"`
	Tiles              []world.Tile  `json:"tiles"`
	Players            []Player      `json:"players"`
	CurrentPlayerIndex int           `json:"current_player_index"`
	Turn               int           `json:"turn"`
	Units              []Unit        `json:"units"`
	Cities             []City        `json:"cities"`
	Structures         []Structure   `json:"structures"`
	Improvements       []Improvement `json:"improvements"`
	Phase              Phase         `json:"phase"`
	Rules              Rules         `json:"rules"`
	Sequence           int64         `json:"sequence"`
	NextID             int           `json:"next_id"`
	Winner             PlayerID      `json:"winner,omitempty"`
}

// ToSnapshot flattens s. Tiles come out in the map's stable order.
func ToSnapshot(s *State) Snapshot {
	return Snapshot{
		Version:            snapshotVersion,
		ID:                 s.ID,
		Seed:               s.Seed,
		Radius:             s.Map.Radius,
		Tiles:              s.Map.TileList(),
		Players:            s.Players,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Turn:               s.Turn,
		Units:              s.Units,
		Cities:             s.Cities,
		Structures:         s.Structures,
		Improvements:       s.Improvements,
		Phase:              s.Phase,
		Rules:              s.Rules,
		Sequence:           s.Sequence,
		NextID:             s.NextID,
		Winner:             s.Winner,
	}
}

// FromSnapshot rebuilds a State and checks its invariants.
func FromSnapshot(snap Snapshot) (*State, error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrCorruptSnapshot, snap.Version, snapshotVersion)
	}
	m, err := world.FromTiles(snap.Radius, snap.Tiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	s := &State{
		ID:                 snap.ID,
		Seed:               snap.Seed,
		Players:            snap.Players,
		CurrentPlayerIndex: snap.CurrentPlayerIndex,
		Turn:               snap.Turn,
		Map:                m,
		Units:              snap.Units,
		Cities:             snap.Cities,
		Structures:         snap.Structures,
		Improvements:       snap.Improvements,
		Phase:              snap.Phase,
		Rules:              snap.Rules,
		Sequence:           snap.Sequence,
		NextID:             snap.NextID,
		Winner:             snap.Winner,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes s as JSON.
func Marshal(s *State) ([]byte, error) {
	b, err := json.Marshal(ToSnapshot(s))
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a State written by Marshal.
func Unmarshal(b []byte) (*State, error) {
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return FromSnapshot(snap)
}
