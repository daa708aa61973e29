package game

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/hexsim/internal/world"
)

// CommandType is the wire tag of a command.
type CommandType string

const (
	CmdStartGame         CommandType = "START_GAME"
	CmdMoveUnit          CommandType = "MOVE_UNIT"
	CmdAttackUnit        CommandType = "ATTACK_UNIT"
	CmdAttackStructure   CommandType = "ATTACK_STRUCTURE"
	CmdCaptureVillage    CommandType = "CAPTURE_VILLAGE"
	CmdExploreRuins      CommandType = "EXPLORE_RUINS"
	CmdStartConstruction CommandType = "START_CONSTRUCTION"
	CmdResearchTech      CommandType = "RESEARCH_TECH"
	CmdUseAbility        CommandType = "USE_ABILITY"
	CmdRecruitUnit       CommandType = "RECRUIT_UNIT"
	CmdHarvestResource   CommandType = "HARVEST_RESOURCE"
	CmdEndTurn           CommandType = "END_TURN"
)

// Command is the closed set of things a player can ask the reducer to do.
// Payloads carry IDs and coordinates only.
type Command interface {
	Type() CommandType
	// Actor is the player issuing the command, empty for StartGame.
	Actor() PlayerID
	isCommand()
}

type StartGame struct{}

type MoveUnit struct {
	Player PlayerID       `json:"player"`
	Unit   UnitID         `json:"unit"`
	To     world.HexCoord `json:"to"`
	// Reachable is an optional precomputed reach set, for example from a
	// preview worker. When present the target must be in it.
	Reachable []world.HexCoord `json:"reachable,omitempty"`
}

type AttackUnit struct {
	Player   PlayerID `json:"player"`
	Attacker UnitID   `json:"attacker"`
	Defender UnitID   `json:"defender"`
}

type AttackStructure struct {
	Player    PlayerID    `json:"player"`
	Attacker  UnitID      `json:"attacker"`
	Structure StructureID `json:"structure"`
}

type CaptureVillage struct {
	Player  PlayerID       `json:"player"`
	Unit    UnitID         `json:"unit"`
	Village world.HexCoord `json:"village"`
}

type ExploreRuins struct {
	Player PlayerID `json:"player"`
	Unit   UnitID   `json:"unit"`
}

type StartConstruction struct {
	Player    PlayerID       `json:"player"`
	Structure StructureType  `json:"structure"`
	At        world.HexCoord `json:"at"`
}

type ResearchTech struct {
	Player PlayerID `json:"player"`
	Tech   TechID   `json:"tech"`
}

type UseAbility struct {
	Player  PlayerID `json:"player"`
	Unit    UnitID   `json:"unit"`
	Ability Ability  `json:"ability"`
}

type RecruitUnit struct {
	Player   PlayerID `json:"player"`
	City     CityID   `json:"city"`
	UnitType UnitType `json:"unit_type"`
}

type HarvestResource struct {
	Player   PlayerID           `json:"player"`
	At       world.HexCoord     `json:"at"`
	Resource world.ResourceType `json:"resource"`
	Option   HarvestOption      `json:"option"`
}

type EndTurn struct {
	Player PlayerID `json:"player"`
}

func (StartGame) Type() CommandType         { return CmdStartGame }
func (MoveUnit) Type() CommandType          { return CmdMoveUnit }
func (AttackUnit) Type() CommandType        { return CmdAttackUnit }
func (AttackStructure) Type() CommandType   { return CmdAttackStructure }
func (CaptureVillage) Type() CommandType    { return CmdCaptureVillage }
func (ExploreRuins) Type() CommandType      { return CmdExploreRuins }
func (StartConstruction) Type() CommandType { return CmdStartConstruction }
func (ResearchTech) Type() CommandType      { return CmdResearchTech }
func (UseAbility) Type() CommandType        { return CmdUseAbility }
func (RecruitUnit) Type() CommandType       { return CmdRecruitUnit }
func (HarvestResource) Type() CommandType   { return CmdHarvestResource }
func (EndTurn) Type() CommandType           { return CmdEndTurn }

func (StartGame) Actor() PlayerID           { return "" }
func (c MoveUnit) Actor() PlayerID          { return c.Player }
func (c AttackUnit) Actor() PlayerID        { return c.Player }
func (c AttackStructure) Actor() PlayerID   { return c.Player }
func (c CaptureVillage) Actor() PlayerID    { return c.Player }
func (c ExploreRuins) Actor() PlayerID      { return c.Player }
func (c StartConstruction) Actor() PlayerID { return c.Player }
func (c ResearchTech) Actor() PlayerID      { return c.Player }
func (c UseAbility) Actor() PlayerID        { return c.Player }
func (c RecruitUnit) Actor() PlayerID       { return c.Player }
func (c HarvestResource) Actor() PlayerID   { return c.Player }
func (c EndTurn) Actor() PlayerID           { return c.Player }

func (StartGame) isCommand()         {}
func (MoveUnit) isCommand()          {}
func (AttackUnit) isCommand()        {}
func (AttackStructure) isCommand()   {}
func (CaptureVillage) isCommand()    {}
func (ExploreRuins) isCommand()      {}
func (StartConstruction) isCommand() {}
func (ResearchTech) isCommand()      {}
func (UseAbility) isCommand()        {}
func (RecruitUnit) isCommand()       {}
func (HarvestResource) isCommand()   {}
func (EndTurn) isCommand()           {}

type envelope struct {
	Type    CommandType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalCommand encodes a command as a {type, payload} envelope.
func MarshalCommand(c Command) ([]byte, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", c.Type(), err)
	}
	return json.Marshal(envelope{Type: c.Type(), Payload: payload})
}

// UnmarshalCommand decodes an envelope written by MarshalCommand.
func UnmarshalCommand(b []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decoding command envelope: %w", err)
	}
	switch env.Type {
	case CmdStartGame:
		return StartGame{}, nil
	case CmdMoveUnit:
		return decodePayload[MoveUnit](env)
	case CmdAttackUnit:
		return decodePayload[AttackUnit](env)
	case CmdAttackStructure:
		return decodePayload[AttackStructure](env)
	case CmdCaptureVillage:
		return decodePayload[CaptureVillage](env)
	case CmdExploreRuins:
		return decodePayload[ExploreRuins](env)
	case CmdStartConstruction:
		return decodePayload[StartConstruction](env)
	case CmdResearchTech:
		return decodePayload[ResearchTech](env)
	case CmdUseAbility:
		return decodePayload[UseAbility](env)
	case CmdRecruitUnit:
		return decodePayload[RecruitUnit](env)
	case CmdHarvestResource:
		return decodePayload[HarvestResource](env)
	case CmdEndTurn:
		return decodePayload[EndTurn](env)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}
}

func decodePayload[T Command](env envelope) (Command, error) {
	var c T
	if err := json.Unmarshal(env.Payload, &c); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", env.Type, err)
	}
	return c, nil
}
