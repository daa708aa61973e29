package world

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MapSize is a named map size preset.
type MapSize string

const (
	MapTiny   MapSize = "tiny"
	MapSmall  MapSize = "small"
	MapNormal MapSize = "normal"
	MapLarge  MapSize = "large"
	MapHuge   MapSize = "huge"
)

var sizeRadius = map[MapSize]int{
	MapTiny:   5,
	MapSmall:  7,
	MapNormal: 9,
	MapLarge:  11,
	MapHuge:   13,
}

// minRadius is the smallest map that still fits a start ring and villages.
const minRadius = 3

// GenParams holds map generation parameters supplied by game setup.
type GenParams struct {
	Width                 int     `json:"width" validate:"gte=0,lte=201"`
	Height                int     `json:"height" validate:"gte=0,lte=201"`
	Seed                  int64   `json:"seed"`
	PlayerCount           int     `json:"player_count" validate:"min=1,max=8"`
	MapSize               MapSize `json:"map_size" validate:"omitempty,oneof=tiny small normal large huge"`
	MinResourceDistance   int     `json:"min_resource_distance" validate:"min=1,max=10"`
	MaxResourcesPerPlayer int     `json:"max_resources_per_player" validate:"min=0,max=18"`

	// Terrain shaping. Zero values fall back to the defaults.
	WaterRatio float64 `json:"water_ratio" validate:"gte=0,lte=0.6"`
}

// DefaultGenParams returns a two-player normal map.
func DefaultGenParams() GenParams {
	return GenParams{
		Seed:                  42,
		PlayerCount:           2,
		MapSize:               MapNormal,
		MinResourceDistance:   2,
		MaxResourcesPerPlayer: 4,
		WaterRatio:            0.25,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the parameters, including the derived radius.
func (p GenParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if r := p.Radius(); r < minRadius {
		return fmt.Errorf("map radius %d below minimum %d: set map_size or width/height", r, minRadius)
	}
	return nil
}

// Radius is the logical hexagon radius of the map. A named size wins over
// width and height.
func (p GenParams) Radius() int {
	if r, ok := sizeRadius[p.MapSize]; ok {
		return r
	}
	side := p.Width
	if p.Height < side {
		side = p.Height
	}
	return side / 2
}

func (p GenParams) waterRatio() float64 {
	if p.WaterRatio == 0 {
		return 0.25
	}
	return p.WaterRatio
}
