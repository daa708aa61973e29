package pathfind

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/talgya/hexsim/internal/world"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("pathfind: pool closed")

// Kind selects the search a Request runs.
type Kind uint8

const (
	KindReach Kind = iota
	KindPath
)

// Request is a self-contained search job. Tiles is a snapshot, so the
// worker never touches live game state.
type Request struct {
	ID     uuid.UUID
	Kind   Kind
	Start  world.HexCoord
	Goal   world.HexCoord // KindPath only
	Budget int
	Tiles  Snapshot
}

// Response answers the Request with the same ID.
type Response struct {
	ID    uuid.UUID
	Reach Reach
	Path  []world.HexCoord
	Err   error
}

type job struct {
	ctx context.Context
	req Request
}

// Pool runs searches on a fixed set of worker goroutines. Requests go in
// through Submit and answers come back on Responses, matched by ID.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
	jobs   chan job
	out    chan Response

	mu     sync.RWMutex
	closed bool
}

// NewPool starts workers goroutines. queue bounds both the request and the
// response buffers.
func NewPool(ctx context.Context, workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < workers {
		queue = workers
	}
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	p := &Pool{
		ctx:    gctx,
		cancel: cancel,
		g:      g,
		jobs:   make(chan job, queue),
		out:    make(chan Response, queue),
	}
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			p.work(gctx)
			return nil
		})
	}
	slog.Debug("pathfind pool started", "workers", workers, "queue", queue)
	return p
}

// Submit queues a request. ctx is the request's cancellation token: once it
// is done the worker skips or abandons the search and answers with ctx.Err().
// A zero request ID is replaced with a fresh one; the ID used is returned.
func (p *Pool) Submit(ctx context.Context, req Request) (uuid.UUID, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return req.ID, ErrPoolClosed
	}

	select {
	case p.jobs <- job{ctx: ctx, req: req}:
		return req.ID, nil
	case <-ctx.Done():
		return req.ID, ctx.Err()
	case <-p.ctx.Done():
		return req.ID, ErrPoolClosed
	}
}

// Responses delivers answers in completion order. It is closed by Close.
func (p *Pool) Responses() <-chan Response {
	return p.out
}

// Close stops the workers, drops queued requests and closes Responses.
func (p *Pool) Close() error {
	p.cancel()

	p.mu.Lock()
	already := p.closed
	p.closed = true
	p.mu.Unlock()
	if already {
		return nil
	}

	err := p.g.Wait()
	close(p.out)
	slog.Debug("pathfind pool stopped")
	return err
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			resp := run(j.ctx, j.req)
			select {
			case p.out <- resp:
			case <-ctx.Done():
				return
			}
		}
	}
}

// cancelCheckEvery is how many cost lookups pass between context checks.
const cancelCheckEvery = 128

// run executes one request synchronously.
func run(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}
	if err := ctx.Err(); err != nil {
		resp.Err = err
		return resp
	}

	base := req.Tiles.Costs()
	calls := 0
	cancelled := false
	cost := func(c world.HexCoord) (int, bool) {
		calls++
		if calls%cancelCheckEvery == 0 && ctx.Err() != nil {
			cancelled = true
		}
		if cancelled {
			return 0, false
		}
		return base(c)
	}

	switch req.Kind {
	case KindReach:
		resp.Reach = Reachable(req.Start, req.Budget, cost)
	case KindPath:
		resp.Path = FindPath(req.Start, req.Goal, cost, req.Budget)
	default:
		resp.Err = errors.New("pathfind: unknown request kind")
		return resp
	}

	if cancelled {
		resp.Reach, resp.Path = nil, nil
		resp.Err = ctx.Err()
	}
	return resp
}

// Tracker matches responses to the latest request per channel ("hover",
// "selection", ...). Starting a new request on a channel cancels the one it
// supersedes, and the superseded answer is rejected by Accept if it still
// arrives.
type Tracker struct {
	mu      sync.Mutex
	latest  map[string]uuid.UUID
	channel map[uuid.UUID]string
	cancels map[uuid.UUID]context.CancelFunc
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		latest:  make(map[string]uuid.UUID),
		channel: make(map[uuid.UUID]string),
		cancels: make(map[uuid.UUID]context.CancelFunc),
	}
}

// Begin registers a new request on channel and returns its context and ID.
func (t *Tracker) Begin(parent context.Context, channel string) (context.Context, uuid.UUID) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New()

	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.latest[channel]; ok {
		if c := t.cancels[prev]; c != nil {
			c()
		}
	}
	t.latest[channel] = id
	t.channel[id] = channel
	t.cancels[id] = cancel
	return ctx, id
}

// Accept reports whether resp answers the latest request on its channel.
// Either way the request is forgotten.
func (t *Tracker) Accept(resp Response) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forget(resp.ID)
}

// Release cancels and forgets a request whose answer is no longer awaited.
func (t *Tracker) Release(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forget(id)
}

// forget drops id and reports whether it was the latest on its channel.
func (t *Tracker) forget(id uuid.UUID) bool {
	ch, ok := t.channel[id]
	if !ok {
		return false
	}
	if c := t.cancels[id]; c != nil {
		c()
	}
	delete(t.channel, id)
	delete(t.cancels, id)

	if t.latest[ch] != id {
		return false
	}
	delete(t.latest, ch)
	return true
}

// Pending returns the number of requests not yet answered.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.channel)
}
