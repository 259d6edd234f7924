package optim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/edmd/internal/config"
)

// Plan is a scripted sweep read from YAML:
//
//	name: pressure-vs-speed
//	scenario: random
//	preset: fixed
//	params:
//	  - name: speed
//	    values: [1, 3, 6, 10]
type Plan struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Scenario    string `yaml:"scenario"`
	Preset      string `yaml:"preset"`
	// Config is a config file path, used when Preset is empty.
	Config string `yaml:"config"`
	Params []Axis `yaml:"params"`
}

type Axis struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("optim: %s: %w", path, err)
	}
	if len(plan.Params) == 0 {
		return nil, fmt.Errorf("optim: %s: plan has no params", path)
	}
	return &plan, nil
}

// BaseConfig resolves the configuration every grid point starts from.
func (p *Plan) BaseConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case p.Preset != "":
		scenario := p.Scenario
		if scenario == "" {
			scenario = config.DefaultScenario
		}
		cfg = config.GetPreset(scenario, p.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("optim: unknown preset %s/%s", scenario, p.Preset)
		}
	case p.Config != "":
		loaded, err := config.Load(p.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}
	if p.Scenario != "" {
		cfg.Scenario = p.Scenario
	}
	return cfg, nil
}

func (p *Plan) Grid() (*GridSearch, error) {
	names := make([]string, len(p.Params))
	ranges := make([][]float64, len(p.Params))
	for i, a := range p.Params {
		names[i], ranges[i] = a.Name, a.Values
	}
	return NewGridSearch(names, ranges)
}
