package config

import (
	"sort"
	"time"
)

func random(speed float64, count int, obstacleMass float64) *Config {
	cfg := DefaultConfig()
	cfg.Particles.Speed = speed
	cfg.Particles.Count = count
	cfg.Obstacle.Mass = obstacleMass
	return cfg
}

func unitBox(scenario string, maxSteps int) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = scenario
	cfg.Box = BoxConfig{Width: 1, Height: 1}
	cfg.Particles = ParticleConfig{Count: 1, Radius: 0.01, Mass: 1, Speed: 1}
	cfg.Obstacle = ObstacleConfig{Enabled: scenario == "normal", Radius: 0.05}
	cfg.Run = RunConfig{MaxSteps: maxSteps, WallClock: 10 * time.Second}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"random": {
		"fixed":   random(1, DefaultN, 0),
		"warm":    random(3, DefaultN, 0),
		"hot":     random(6, DefaultN, 0),
		"extreme": random(10, DefaultN, 0),
		"movable": random(1, DefaultN, MovableObstacleM),
		"dense":   random(1, 300, 0),
	},
	"single": {
		"bounce": unitBox("single", 20),
	},
	"headon": {
		"swap": unitBox("headon", 10),
	},
	"normal": {
		"reflect": unitBox("normal", 10),
	},
}

// GetPreset returns a copy so callers may override fields.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListScenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
