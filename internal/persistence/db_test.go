package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexsim/internal/engine"
	"github.com/talgya/hexsim/internal/game"
	"github.com/talgya/hexsim/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "hexsim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newGame(t *testing.T) *game.State {
	t.Helper()
	params := world.DefaultGenParams()
	params.MapSize = world.MapTiny
	s, _, err := game.New(game.Setup{Params: params})
	require.NoError(t, err)
	return s
}

func marshal(t *testing.T, s *game.State) string {
	t.Helper()
	b, err := game.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestSnapshots(t *testing.T) {
	db := openTemp(t)
	s := newGame(t)
	require.NoError(t, db.SaveGame(s))
	require.NoError(t, db.SaveGame(s), "saving twice is harmless")
	require.NoError(t, db.SaveSnapshot(s))

	started, err := game.Apply(s, game.StartGame{})
	require.NoError(t, err)
	require.NoError(t, db.SaveSnapshot(started))

	latest, err := db.LatestSnapshot(s.ID)
	require.NoError(t, err)
	assert.JSONEq(t, marshal(t, started), marshal(t, latest))

	first, err := db.Snapshot(s.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseSetup, first.Phase)

	_, err = db.LatestSnapshot("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	games, err := db.Games()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, s.ID, games[0].ID)
	assert.Equal(t, s.Seed, games[0].Seed)
	assert.Equal(t, 2, games[0].Players)
}

func TestCommandLog(t *testing.T) {
	db := openTemp(t)
	s := newGame(t)
	require.NoError(t, db.SaveGame(s))

	cmds := []game.Command{
		game.StartGame{},
		game.MoveUnit{Player: "p1", Unit: "u2", To: world.HexCoord{Q: 1, R: 0}},
		game.EndTurn{Player: "p1"},
	}
	for i, c := range cmds {
		require.NoError(t, db.AppendCommand(s.ID, i, c))
	}
	assert.Error(t, db.AppendCommand(s.ID, 1, game.EndTurn{Player: "p2"}), "positions are unique")

	got, err := db.Commands(s.ID)
	require.NoError(t, err)
	assert.Equal(t, cmds, got)

	none, err := db.Commands("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveMeta("schema", "1"))
	require.NoError(t, db.SaveMeta("schema", "2"))

	v, err := db.GetMeta("schema")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	_, err = db.GetMeta("nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	db := openTemp(t)
	e := engine.New(newGame(t))
	for _, cmd := range []game.Command{
		game.StartGame{},
		game.EndTurn{Player: "p1"},
		game.EndTurn{Player: "p2"},
	} {
		_, err := e.Dispatch(cmd)
		require.NoError(t, err)
	}
	require.NoError(t, db.SaveSession(e))

	// Saving again after more play replaces the log.
	_, err := e.Dispatch(game.EndTurn{Player: "p1"})
	require.NoError(t, err)
	require.NoError(t, db.SaveSession(e))

	id := e.State().ID
	last, err := db.GetMeta("last_game")
	require.NoError(t, err)
	assert.Equal(t, id, last)

	loaded, err := db.LoadSession(id)
	require.NoError(t, err)
	assert.Len(t, loaded.History(), 4)
	assert.JSONEq(t, marshal(t, e.State()), marshal(t, loaded.State()))

	latest, err := db.LatestSnapshot(id)
	require.NoError(t, err)
	assert.JSONEq(t, marshal(t, e.State()), marshal(t, latest))

	_, err = db.LoadSession("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShorterSessionReplacesLongerOne(t *testing.T) {
	db := openTemp(t)
	initial := newGame(t)

	play := func(rounds int) *engine.Engine {
		e := engine.New(initial)
		_, err := e.Dispatch(game.StartGame{})
		require.NoError(t, err)
		for range rounds {
			for _, p := range []game.PlayerID{"p1", "p2"} {
				_, err := e.Dispatch(game.EndTurn{Player: p})
				require.NoError(t, err)
			}
		}
		return e
	}

	long := play(4)
	require.NoError(t, db.SaveSession(long))
	short := play(1)
	require.NoError(t, db.SaveSession(short))

	loaded, err := db.LoadSession(initial.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.History(), len(short.History()))

	latest, err := db.LatestSnapshot(initial.ID)
	require.NoError(t, err)
	assert.Equal(t, short.State().Sequence, latest.Sequence)
	assert.JSONEq(t, marshal(t, loaded.State()), marshal(t, latest))

	_, err = db.Snapshot(initial.ID, long.State().Sequence)
	assert.ErrorIs(t, err, ErrNotFound)
}
