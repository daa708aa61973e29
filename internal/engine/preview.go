package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/hexsim/internal/game"
	"github.com/talgya/hexsim/internal/pathfind"
	"github.com/talgya/hexsim/internal/world"
)

// ErrSuperseded is returned for a preview replaced by a newer one on the
// same channel before its answer came back.
var ErrSuperseded = errors.New("engine: preview superseded")

// Previewer answers reach and path queries on a worker pool, off the
// dispatching goroutine. Queries work on a tile snapshot and never touch
// the engine's state.
type Previewer struct {
	pool    *pathfind.Pool
	tracker *pathfind.Tracker

	mu      sync.Mutex
	waiting map[uuid.UUID]chan pathfind.Response
	done    chan struct{}
}

// NewPreviewer starts a pool of workers. Close releases it.
func NewPreviewer(ctx context.Context, workers int) *Previewer {
	p := &Previewer{
		pool:    pathfind.NewPool(ctx, workers, workers*4),
		tracker: pathfind.NewTracker(),
		waiting: make(map[uuid.UUID]chan pathfind.Response),
		done:    make(chan struct{}),
	}
	go p.collect()
	return p
}

func (p *Previewer) collect() {
	defer close(p.done)
	for resp := range p.pool.Responses() {
		accepted := p.tracker.Accept(resp)

		p.mu.Lock()
		ch, ok := p.waiting[resp.ID]
		delete(p.waiting, resp.ID)
		p.mu.Unlock()
		if !ok {
			continue
		}
		if !accepted {
			resp.Reach, resp.Path = nil, nil
			resp.Err = ErrSuperseded
		}
		ch <- resp
	}
}

// Reach computes the tiles unit can reach in s. channel groups previews
// that supersede each other, for example one per input source.
func (p *Previewer) Reach(ctx context.Context, channel string, s *game.State, unit game.UnitID) (pathfind.Reach, error) {
	req, err := request(s, unit)
	if err != nil {
		return nil, err
	}
	req.Kind = pathfind.KindReach
	resp, err := p.submit(ctx, channel, req)
	if err != nil {
		return nil, err
	}
	return resp.Reach, nil
}

// Path finds the cheapest route for unit to goal within its movement.
func (p *Previewer) Path(ctx context.Context, channel string, s *game.State, unit game.UnitID, goal world.HexCoord) ([]world.HexCoord, error) {
	req, err := request(s, unit)
	if err != nil {
		return nil, err
	}
	req.Kind = pathfind.KindPath
	req.Goal = goal
	resp, err := p.submit(ctx, channel, req)
	if err != nil {
		return nil, err
	}
	return resp.Path, nil
}

// request builds a search over the tiles within the unit's movement. Every
// step costs at least 1, so nothing further can be reached.
func request(s *game.State, unit game.UnitID) (pathfind.Request, error) {
	u, ok := s.Unit(unit)
	if !ok {
		return pathfind.Request{}, fmt.Errorf("unknown unit %q", unit)
	}
	budget := u.RemainingMovement
	if u.Status == game.StatusSiegeMode {
		budget = 0
	}
	tiles, err := s.PassableSnapshot(unit, budget)
	if err != nil {
		return pathfind.Request{}, err
	}
	return pathfind.Request{Start: u.Coord, Budget: budget, Tiles: tiles}, nil
}

func (p *Previewer) submit(ctx context.Context, channel string, req pathfind.Request) (pathfind.Response, error) {
	rctx, id := p.tracker.Begin(ctx, channel)
	req.ID = id

	ch := make(chan pathfind.Response, 1)
	p.mu.Lock()
	p.waiting[id] = ch
	p.mu.Unlock()

	if _, err := p.pool.Submit(rctx, req); err != nil {
		p.forget(id)
		return pathfind.Response{}, err
	}

	select {
	case resp := <-ch:
		return resp, resp.Err
	case <-ctx.Done():
		p.forget(id)
		return pathfind.Response{}, ctx.Err()
	case <-p.done:
		select {
		case resp := <-ch:
			return resp, resp.Err
		default:
		}
		return pathfind.Response{}, pathfind.ErrPoolClosed
	}
}

func (p *Previewer) forget(id uuid.UUID) {
	p.mu.Lock()
	delete(p.waiting, id)
	p.mu.Unlock()
	p.tracker.Release(id)
}

// Pending returns the number of previews still in flight.
func (p *Previewer) Pending() int {
	return p.tracker.Pending()
}

// Close stops the workers. Previews still waiting fail with
// pathfind.ErrPoolClosed.
func (p *Previewer) Close() error {
	err := p.pool.Close()
	<-p.done
	slog.Debug("previewer closed")
	return err
}
