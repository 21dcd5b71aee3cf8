package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"skirmish.ai/internal/game"
)

// Scenario is the scripted world a local coordinator plays against one agent.
type Scenario struct {
	Config game.GameConfig `yaml:"config"`
	Agents []ScenarioAgent `yaml:"agents"`
	Bases  []ScenarioBase  `yaml:"bases"`
	Intel  []ScenarioIntel `yaml:"intel"`
}

type ScenarioAgent struct {
	ID   string `yaml:"id"`
	Team string `yaml:"team"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	HP   int    `yaml:"hp"`
}

type ScenarioBase struct {
	Team string `yaml:"team"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	HP   int    `yaml:"hp"`
}

// ScenarioIntel is delivered before the play_turn of Turn.
type ScenarioIntel struct {
	Turn int    `yaml:"turn"`
	Text string `yaml:"text"`
}

func LoadScenario(path string) (Scenario, error) {
	s := Scenario{Config: game.DefaultConfig()}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if len(s.Agents) == 0 {
		return s, fmt.Errorf("%w: scenario %s has no agents", ErrInvalid, path)
	}
	return s, nil
}

// State builds the opening snapshot. Missing hp values take the game defaults.
func (s Scenario) State() game.GameState {
	st := game.NewGameState()
	st.Config = s.Config
	for _, a := range s.Agents {
		hp := a.HP
		if hp == 0 {
			hp = game.DefaultAgentHP
		}
		st.Agents = append(st.Agents, game.NewAgent(a.ID, a.Team, game.Position{X: a.X, Y: a.Y}, hp))
	}
	for _, b := range s.Bases {
		hp := b.HP
		if hp == 0 {
			hp = game.DefaultBaseHP
		}
		st.Bases = append(st.Bases, game.NewBase(b.Team, game.Position{X: b.X, Y: b.Y}, hp))
	}
	return st
}
