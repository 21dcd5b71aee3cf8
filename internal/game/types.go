package game

// Position is a cell on the map. Bounds are not enforced here; see GameConfig.InBounds.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Add(o Position) Position { return Position{X: p.X + o.X, Y: p.Y + o.Y} }

type Direction int

// Declaration order is also the order in which moves are evaluated.
const (
	North Direction = iota
	South
	East
	West
)

// Directions lists the four cardinal directions in evaluation order.
var Directions = [4]Direction{North, South, East, West}

func (d Direction) Offset() Position {
	switch d {
	case North:
		return Position{X: 0, Y: -1}
	case South:
		return Position{X: 0, Y: 1}
	case East:
		return Position{X: 1, Y: 0}
	case West:
		return Position{X: -1, Y: 0}
	default:
		return Position{}
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return North
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "south"
	}
}

// ParseDirection maps a lowercase token to a Direction. Unknown tokens map to North.
func ParseDirection(s string) Direction {
	switch s {
	case "north":
		return North
	case "south":
		return South
	case "east":
		return East
	case "west":
		return West
	default:
		return North
	}
}

const (
	DefaultAgentHP = 100
	DefaultBaseHP  = 500
)

type Agent struct {
	ID       string    `json:"id"`
	Team     string    `json:"team"`
	Position Position  `json:"position"`
	Facing   Direction `json:"facing"`
	HP       int       `json:"hp"`
	MaxHP    int       `json:"max_hp"`
	Alive    bool      `json:"is_alive"`
}

func NewAgent(id, team string, pos Position, hp int) Agent {
	return Agent{ID: id, Team: team, Position: pos, Facing: North, HP: hp, MaxHP: hp, Alive: true}
}

type Base struct {
	Team      string   `json:"team"`
	Position  Position `json:"position"`
	HP        int      `json:"hp"`
	MaxHP     int      `json:"max_hp"`
	Destroyed bool     `json:"is_destroyed"`
}

func NewBase(team string, pos Position, hp int) Base {
	return Base{Team: team, Position: pos, HP: hp, MaxHP: hp}
}

type GameConfig struct {
	MapWidth  int `json:"map_width" yaml:"map_width"`
	MapHeight int `json:"map_height" yaml:"map_height"`
	MaxTurns  int `json:"max_turns" yaml:"max_turns"`
}

// DefaultConfig is the construction-time config. Decoded snapshots do not fall back to it.
func DefaultConfig() GameConfig {
	return GameConfig{MapWidth: 20, MapHeight: 20, MaxTurns: 500}
}

func (c GameConfig) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < c.MapWidth && p.Y < c.MapHeight
}

// GameState is one snapshot. It is rebuilt every turn and carries no identity across turns.
type GameState struct {
	Agents      []Agent    `json:"agents"`
	Bases       []Base     `json:"bases"`
	CurrentTurn int        `json:"current_turn"`
	GameOver    bool       `json:"game_over"`
	Winner      string     `json:"winner"`
	Config      GameConfig `json:"config"`
}

func NewGameState() GameState {
	return GameState{Config: DefaultConfig()}
}

// Occupied reports whether any alive agent stands on p.
func (s *GameState) Occupied(p Position) bool {
	for _, a := range s.Agents {
		if a.Alive && a.Position == p {
			return true
		}
	}
	return false
}

// FindAgent returns the first agent with the given id.
func (s *GameState) FindAgent(id string) (Agent, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}
