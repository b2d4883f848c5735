package main

import "arbor/internal/config"

// SettingsBrowser handles the theme picker.
type SettingsBrowser struct {
	themeNames []string
	selected   int
}

// NewSettingsBrowser lists themes with current preselected.
func NewSettingsBrowser(themes map[string]Theme, current string) *SettingsBrowser {
	sb := &SettingsBrowser{themeNames: themeNames(themes)}
	for i, name := range sb.themeNames {
		if name == current {
			sb.selected = i
		}
	}
	return sb
}

func (sb *SettingsBrowser) ThemeNames() []string {
	return sb.themeNames
}

func (sb *SettingsBrowser) SelectedIndex() int {
	return sb.selected
}

// Selected returns the highlighted theme name.
func (sb *SettingsBrowser) Selected() string {
	if sb.selected < 0 || sb.selected >= len(sb.themeNames) {
		return config.DefaultTheme
	}
	return sb.themeNames[sb.selected]
}

func (sb *SettingsBrowser) MoveUp() {
	if sb.selected > 0 {
		sb.selected--
	}
}

func (sb *SettingsBrowser) MoveDown() {
	if sb.selected < len(sb.themeNames)-1 {
		sb.selected++
	}
}
