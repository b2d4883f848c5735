package main

import (
	"fmt"
	"time"
)

// formatTime renders "mm:ss/mm:ss", or "h:mm:ss/h:mm:ss" once the track is
// longer than an hour.
func formatTime(played, total time.Duration) string {
	if played < 0 {
		played = 0
	}
	if total < 0 {
		total = 0
	}
	ph, pm, ps := split(played)
	th, tm, ts := split(total)

	if th > 0 {
		return fmt.Sprintf("%d:%02d:%02d/%d:%02d:%02d", ph, pm, ps, th, tm, ts)
	}
	// Without hours the minutes are not folded, so a position past the
	// total still reads correctly.
	return fmt.Sprintf("%02d:%02d/%02d:%02d", ph*60+pm, ps, tm, ts)
}

func split(d time.Duration) (hours, minutes, seconds int) {
	s := int(d / time.Second)
	return s / 3600, s % 3600 / 60, s % 60
}

// formatPosition is used while the duration is still unknown.
func formatPosition(played time.Duration) string {
	h, m, s := split(played)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d/--:--", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d/--:--", m, s)
}
