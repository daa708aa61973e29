// Package pathfind computes movement-budget-limited reachability and
// shortest paths over the hex grid. Every function here is a pure function
// of its arguments, so searches can run on any goroutine.
package pathfind

import (
	"slices"

	"github.com/talgya/hexsim/internal/world"
)

// CostFunc returns the movement cost of entering c, or ok=false when c cannot
// be entered at all.
type CostFunc func(c world.HexCoord) (cost int, ok bool)

// TerrainCosts builds a CostFunc from a map: tiles failing passable are
// blocked, the rest cost their terrain's MoveCost.
func TerrainCosts(m *world.Map, passable func(t *world.Tile) bool) CostFunc {
	return func(c world.HexCoord) (int, bool) {
		t := m.Get(c)
		if t == nil || !passable(t) {
			return 0, false
		}
		return t.Terrain.MoveCost(), true
	}
}

// Reach is the result of a reachability search: every reachable coordinate
// with the cheapest cost to get there.
type Reach map[world.HexCoord]int

// Contains reports whether c is reachable.
func (r Reach) Contains(c world.HexCoord) bool {
	_, ok := r[c]
	return ok
}

// Cost returns the cheapest cost to reach c.
func (r Reach) Cost(c world.HexCoord) (int, bool) {
	v, ok := r[c]
	return v, ok
}

// Coords returns the reachable coordinates in stable order.
func (r Reach) Coords() []world.HexCoord {
	out := make([]world.HexCoord, 0, len(r))
	for c := range r {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b world.HexCoord) int {
		if a.Q != b.Q {
			return a.Q - b.Q
		}
		return a.R - b.R
	})
	return out
}

// search is a uniform-cost search with one FIFO bucket per accumulated cost.
// With unit costs it is plain breadth-first search; ties within a bucket are
// broken by discovery order, which follows world.Neighbors order.
type search struct {
	cost    CostFunc
	budget  int
	best    Reach
	parent  map[world.HexCoord]world.HexCoord
	buckets [][]world.HexCoord
}

func newSearch(origin world.HexCoord, budget int, cost CostFunc, trackParents bool) *search {
	if budget < 0 {
		budget = 0
	}
	s := &search{
		cost:    cost,
		budget:  budget,
		best:    Reach{origin: 0},
		buckets: make([][]world.HexCoord, budget+1),
	}
	if trackParents {
		s.parent = make(map[world.HexCoord]world.HexCoord)
	}
	s.buckets[0] = []world.HexCoord{origin}
	return s
}

// run expands nodes in cost order. stop, when non-nil, is called as each
// node is dequeued and ends the search early by returning true.
func (s *search) run(stop func(c world.HexCoord) bool) {
	for spent := 0; spent <= s.budget; spent++ {
		// The bucket can grow while it is processed only for zero-cost
		// edges, which CostFunc never produces; index by position anyway.
		for i := 0; i < len(s.buckets[spent]); i++ {
			cur := s.buckets[spent][i]
			if s.best[cur] != spent {
				continue // stale entry, found cheaper later
			}
			if stop != nil && stop(cur) {
				return
			}
			for _, n := range cur.Neighbors() {
				step, ok := s.cost(n)
				if !ok {
					continue
				}
				if step < 1 {
					step = 1
				}
				next := spent + step
				if next > s.budget {
					continue
				}
				if prev, seen := s.best[n]; seen && prev <= next {
					continue
				}
				s.best[n] = next
				if s.parent != nil {
					s.parent[n] = cur
				}
				s.buckets[next] = append(s.buckets[next], n)
			}
		}
	}
}

// Reachable returns every coordinate reachable from origin without spending
// more than budget. The origin is always included at cost 0 and is never
// itself checked against cost, so a unit standing anywhere can "reach" its
// own tile; a zero budget yields exactly that singleton.
func Reachable(origin world.HexCoord, budget int, cost CostFunc) Reach {
	s := newSearch(origin, budget, cost, false)
	s.run(nil)
	return s.best
}

// FindPath returns the cheapest path from start to goal, both inclusive,
// spending at most maxDistance. It returns an empty slice when goal cannot be
// reached within that budget.
func FindPath(start, goal world.HexCoord, cost CostFunc, maxDistance int) []world.HexCoord {
	if start == goal {
		return []world.HexCoord{start}
	}
	s := newSearch(start, maxDistance, cost, true)
	found := false
	s.run(func(c world.HexCoord) bool {
		if c == goal {
			found = true
			return true
		}
		return false
	})
	if !found {
		return []world.HexCoord{}
	}

	path := []world.HexCoord{goal}
	for cur := goal; cur != start; {
		cur = s.parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// PathCost sums the entry cost of every step after the first.
func PathCost(path []world.HexCoord, cost CostFunc) (int, bool) {
	total := 0
	for _, c := range path[min(1, len(path)):] {
		step, ok := cost(c)
		if !ok {
			return 0, false
		}
		total += max(step, 1)
	}
	return total, true
}
