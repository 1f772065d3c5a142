package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view. Trail paints the top-down canvas and Chart
// the mean speed graph.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Trail  lipgloss.Color
	Chart  lipgloss.Color
	Result lipgloss.Color
	Error  lipgloss.Color
}

var (
	// ThemeRoad is asphalt grey with lane-marking yellow.
	ThemeRoad = Theme{
		Name:   "road",
		Title:  lipgloss.Color("#f2c94c"),
		Trail:  lipgloss.Color("#d9d9d9"),
		Chart:  lipgloss.Color("#f2c94c"),
		Result: lipgloss.Color("#ffffff"),
		Error:  lipgloss.Color("#e5533d"),
	}

	ThemeNight = Theme{
		Name:   "night",
		Title:  lipgloss.Color("#8fb8ff"),
		Trail:  lipgloss.Color("#ffb347"),
		Chart:  lipgloss.Color("#ff6f61"),
		Result: lipgloss.Color("#c9d6ff"),
		Error:  lipgloss.Color("#ff3b3b"),
	}

	// ThemeTrack uses kerb red and white over infield green.
	ThemeTrack = Theme{
		Name:   "track",
		Title:  lipgloss.Color("#d7263d"),
		Trail:  lipgloss.Color("#f4f4f4"),
		Chart:  lipgloss.Color("#3fa34d"),
		Result: lipgloss.Color("#d7263d"),
		Error:  lipgloss.Color("#ff9f1c"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Title:  lipgloss.Color("252"),
		Trail:  lipgloss.Color("250"),
		Chart:  lipgloss.Color("245"),
		Result: lipgloss.Color("255"),
		Error:  lipgloss.Color("244"),
	}

	Themes = []Theme{
		ThemeRoad,
		ThemeNight,
		ThemeTrack,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to road.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeRoad
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
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
