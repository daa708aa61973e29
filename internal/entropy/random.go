// Package entropy provides the seeded random streams used by map generation
// and any other stochastic rule. Nothing here reads the clock or the OS
// entropy pool: identical seeds give identical streams on every platform.
package entropy

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// Stage offsets keep the per-stage streams independent of each other, so a
// change in how many numbers one stage draws never shifts another stage.
const (
	StageTerrain   int64 = 0
	StageResources int64 = 100
	StageStarts    int64 = 200
	StageVillages  int64 = 300
	StageRuins     int64 = 350
	StageNames     int64 = 400
)

// Stream is a deterministic pseudo-random source.
type Stream struct {
	rng  *rand.Rand
	seed int64
}

// NewStream creates the stream for a stage of a seeded process.
func NewStream(seed, stage int64) *Stream {
	s := seed + stage
	return &Stream{rng: rand.New(rand.NewSource(s)), seed: s}
}

// Seed returns the effective seed of the stream.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Intn returns a value in [0, n). n <= 0 returns 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Shuffle permutes n elements through swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Perm returns a permutation of [0, n).
func (s *Stream) Perm(n int) []int {
	return s.rng.Perm(n)
}

// Mix derives a sub-seed from a base seed and any number of integer parts,
// for example a game seed and an action sequence number.
func Mix(seed int64, parts ...int64) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(seed))
	h.Write(buf[:])
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf[:], uint64(p))
		h.Write(buf[:])
	}
	return int64(h.Sum64() >> 1)
}
