package main

import "testing"

func TestSettingsBrowser_PreselectsCurrentTheme(t *testing.T) {
	sb := NewSettingsBrowser(builtinThemes(), "forest")
	if sb.Selected() != "forest" {
		t.Fatalf("selected %q, want forest", sb.Selected())
	}

	sb.MoveUp()
	if sb.Selected() != "default" {
		t.Errorf("after up: %q", sb.Selected())
	}
	for range 10 {
		sb.MoveDown()
	}
	if sb.Selected() != "sunset" {
		t.Errorf("after down: %q", sb.Selected())
	}
}
