package world

import "github.com/talgya/hexsim/internal/entropy"

var (
	namePrefixes = []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	nameSuffixes = []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}
)

// SettlementNames produces count distinct procedural names for a seed.
// The same seed always yields the same sequence.
func SettlementNames(seed int64, count int) []string {
	rng := entropy.NewStream(seed, entropy.StageNames)
	used := make(map[string]bool)
	names := make([]string, 0, count)

	// The name space is finite; numbered fallbacks keep this bounded.
	for attempts := 0; len(names) < count; attempts++ {
		name := namePrefixes[rng.Intn(len(namePrefixes))] + nameSuffixes[rng.Intn(len(nameSuffixes))]
		if attempts > 4*count+64 {
			name = name + " " + string(rune('A'+len(names)%26))
		}
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}

	return names
}
