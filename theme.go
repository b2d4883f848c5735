package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
)

// Theme represents a color theme for the application
type Theme struct {
	Name          string `json:"name"`
	Primary       string `json:"primary"`        // Main accent color
	Secondary     string `json:"secondary"`      // Secondary accent color
	Background    string `json:"background"`     // Background color
	Foreground    string `json:"foreground"`     // Text color
	Muted         string `json:"muted"`          // Muted text color
	Border        string `json:"border"`         // Border color
	Highlight     string `json:"highlight"`      // Highlight/selection color
	Success       string `json:"success"`        // Success color
	Warning       string `json:"warning"`        // Warning color
	Error         string `json:"error"`          // Error color
	GradientStart string `json:"gradient_start"` // Progress bar gradient start color
	GradientEnd   string `json:"gradient_end"`   // Progress bar gradient end color
}

// builtinThemes are always available; files in the themes directory may
// override or add to them.
func builtinThemes() map[string]Theme {
	return map[string]Theme{
		"default": {
			Name:          "Default",
			Primary:       "#ff5fff",
			Secondary:     "#af87ff",
			Background:    "#262626",
			Foreground:    "#d0d0d0",
			Muted:         "#585858",
			Border:        "#626262",
			Highlight:     "#ff5fff",
			Success:       "#00ff00",
			Warning:       "#ffff00",
			Error:         "#ff0000",
			GradientStart: "#af87ff",
			GradientEnd:   "#ff5fff",
		},
		"dark": {
			Name:          "Dark",
			Primary:       "#00afff",
			Secondary:     "#0087af",
			Background:    "#080808",
			Foreground:    "#ffffff",
			Muted:         "#808080",
			Border:        "#444444",
			Highlight:     "#00afff",
			Success:       "#00d700",
			Warning:       "#ffd700",
			Error:         "#d70000",
			GradientStart: "#0087af",
			GradientEnd:   "#00afff",
		},
		"cyberpunk": {
			Name:          "Cyberpunk",
			Primary:       "#00ffff",
			Secondary:     "#ff00ff",
			Background:    "#000000",
			Foreground:    "#00ffff",
			Muted:         "#585858",
			Border:        "#00ffff",
			Highlight:     "#ff00ff",
			Success:       "#00ff00",
			Warning:       "#ffff00",
			Error:         "#ff0000",
			GradientStart: "#00ffff",
			GradientEnd:   "#ff00ff",
		},
		"forest": {
			Name:          "Forest",
			Primary:       "#008700",
			Secondary:     "#00af00",
			Background:    "#005f00",
			Foreground:    "#afff87",
			Muted:         "#585858",
			Border:        "#008700",
			Highlight:     "#00af00",
			Success:       "#00ff00",
			Warning:       "#d7af00",
			Error:         "#af0000",
			GradientStart: "#00af00",
			GradientEnd:   "#00ff00",
		},
		"sunset": {
			Name:          "Sunset",
			Primary:       "#ff8700",
			Secondary:     "#ff0000",
			Background:    "#5f0000",
			Foreground:    "#ffd787",
			Muted:         "#585858",
			Border:        "#ff8700",
			Highlight:     "#ff0000",
			Success:       "#00ff00",
			Warning:       "#ffff00",
			Error:         "#d70000",
			GradientStart: "#ff8700",
			GradientEnd:   "#ff0000",
		},
	}
}

// loadThemes returns the builtin themes merged with every *.json theme file
// in dir. Unreadable files are skipped.
func loadThemes(dir string) map[string]Theme {
	themes := builtinThemes()

	files, err := os.ReadDir(dir)
	if err != nil {
		return themes
	}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", file.Name()).Msg("Skipping theme")
			continue
		}
		var theme Theme
		if err := json.Unmarshal(data, &theme); err != nil {
			log.Warn().Err(err).Str("file", file.Name()).Msg("Skipping invalid theme")
			continue
		}
		themes[strings.TrimSuffix(file.Name(), ".json")] = theme
	}
	return themes
}

// themeNames returns the theme keys in a stable order.
func themeNames(themes map[string]Theme) []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pickTheme falls back to the default theme for unknown names.
func pickTheme(themes map[string]Theme, name string) Theme {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return builtinThemes()["default"]
}

// ThemeStyles contains pre-configured lipgloss styles
type ThemeStyles struct {
	Primary    lipgloss.Style
	Secondary  lipgloss.Style
	Foreground lipgloss.Style
	Muted      lipgloss.Style
	Border     lipgloss.Style
	Highlight  lipgloss.Style
	Selected   lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
}

func newThemeStyles(theme Theme) ThemeStyles {
	return ThemeStyles{
		Primary:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary)).Bold(true),
		Secondary:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Secondary)),
		Foreground: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Foreground)),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)),
		Border:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(theme.Border)),
		Highlight:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Highlight)).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Primary)).
			Foreground(lipgloss.Color(theme.Background)).
			Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Warning)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
	}
}

// makeProgressGradient returns one style per progress bar cell, blending the
// theme's gradient colors.
func makeProgressGradient(steps int, theme Theme) []lipgloss.Style {
	start, err := colorful.Hex(theme.GradientStart)
	if err != nil {
		start = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	end, err := colorful.Hex(theme.GradientEnd)
	if err != nil {
		end = start
	}

	styles := make([]lipgloss.Style, steps)
	for i := range styles {
		ratio := 0.0
		if steps > 1 {
			ratio = float64(i) / float64(steps-1)
		}
		c := start.BlendLab(end, ratio).Clamped()
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(true)
	}
	return styles
}
