package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexsim/internal/world"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := createTestState(nil)
	addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	giveTech(s, "p1", TechForestry)
	s.Players[0].Stars = 10
	ready(s)
	s = apply(t, s, StartConstruction{Player: "p1", Structure: StructureSawmill, At: world.HexCoord{Q: -2, R: 0}})

	b, err := Marshal(s)
	require.NoError(t, err)
	back, err := Unmarshal(b)
	require.NoError(t, err)

	again, err := Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(b), string(again))
	assert.Equal(t, s.Sequence, back.Sequence)
	assert.Equal(t, s.NextID, back.NextID)

	// The restored state keeps playing identically.
	x := apply(t, s, EndTurn{Player: "p1"})
	y := apply(t, back, EndTurn{Player: "p1"})
	xb, _ := Marshal(x)
	yb, _ := Marshal(y)
	assert.JSONEq(t, string(xb), string(yb))
}

func TestUnmarshalRejectsCorruptSnapshots(t *testing.T) {
	s := createTestState(nil)
	addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	ready(s)

	tests := []struct {
		name string
		edit func(snap *Snapshot)
	}{
		{"version", func(snap *Snapshot) { snap.Version = 99 }},
		{"unit off map", func(snap *Snapshot) { snap.Units[0].Coord = world.HexCoord{Q: 20, R: 0} }},
		{"player index", func(snap *Snapshot) { snap.CurrentPlayerIndex = 5 }},
		{"hp", func(snap *Snapshot) { snap.Units[0].HP = 0 }},
		{"city tile", func(snap *Snapshot) { snap.Cities[0].Coord = world.HexCoord{} }},
		{"duplicate player", func(snap *Snapshot) { snap.Players[1].ID = snap.Players[0].ID }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(s)
			require.NoError(t, err)
			var snap Snapshot
			require.NoError(t, json.Unmarshal(b, &snap))
			tt.edit(&snap)

			_, err = FromSnapshot(snap)
			require.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}

	_, err := Unmarshal([]byte("{"))
	assert.Error(t, err)
}

func TestCommandEnvelope(t *testing.T) {
	cmds := []Command{
		StartGame{},
		MoveUnit{Player: "p1", Unit: "u3", To: world.HexCoord{Q: 1, R: -1}},
		CaptureVillage{Player: "p2", Unit: "u4", Village: world.HexCoord{Q: 2, R: 2}},
		HarvestResource{Player: "p1", At: world.HexCoord{Q: -2, R: 0}, Resource: world.ResourceCrop, Option: HarvestSustainable},
		EndTurn{Player: "p1"},
	}
	for _, c := range cmds {
		t.Run(string(c.Type()), func(t *testing.T) {
			b, err := MarshalCommand(c)
			require.NoError(t, err)
			back, err := UnmarshalCommand(b)
			require.NoError(t, err)
			assert.Equal(t, c, back)
			assert.Equal(t, c.Actor(), back.Actor())
		})
	}
}

func TestCommandEnvelopeFormat(t *testing.T) {
	b, err := MarshalCommand(EndTurn{Player: "p2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"END_TURN","payload":{"player":"p2"}}`, string(b))

	_, err = UnmarshalCommand([]byte(`{"type":"SURRENDER","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = UnmarshalCommand([]byte(`{"type":"MOVE_UNIT","payload":"nope"}`))
	assert.Error(t, err)
}
