package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the live viewer.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	// Cool to hot, like a speed colour map of the gas.
	ThemeKinetic = Theme{
		Name:    "kinetic",
		Primary: lipgloss.Color("#4fc3f7"),
		Accent:  lipgloss.Color("#ff7043"),
		Text:    lipgloss.Color("#e3f2fd"),
		Muted:   lipgloss.Color("#546e7a"),
		Success: lipgloss.Color("#81c784"),
		Warning: lipgloss.Color("#ffb74d"),
		Error:   lipgloss.Color("#e57373"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Primary: lipgloss.Color("#33ff66"),
		Accent:  lipgloss.Color("#b2ffc8"),
		Text:    lipgloss.Color("#33ff66"),
		Muted:   lipgloss.Color("#1a6633"),
		Success: lipgloss.Color("#b2ffc8"),
		Warning: lipgloss.Color("#e6ff33"),
		Error:   lipgloss.Color("#ff3344"),
	}

	ThemePaper = Theme{
		Name:    "paper",
		Primary: lipgloss.Color("#263238"),
		Accent:  lipgloss.Color("#1565c0"),
		Text:    lipgloss.Color("#37474f"),
		Muted:   lipgloss.Color("#90a4ae"),
		Success: lipgloss.Color("#2e7d32"),
		Warning: lipgloss.Color("#ef6c00"),
		Error:   lipgloss.Color("#c62828"),
	}

	Themes = []Theme{ThemeKinetic, ThemePhosphor, ThemePaper}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
