package models

import (
	"strings"
	"testing"
)

func TestAnnouncementContent(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"short title untouched", "Campus closed", "Campus closed"},
		{"exactly 100 chars untouched", strings.Repeat("x", 100), strings.Repeat("x", 100)},
		{"101 chars truncated", strings.Repeat("x", 101), strings.Repeat("x", 100) + "..."},
		{"long title truncated", strings.Repeat("A", 150), strings.Repeat("A", 100) + "..."},
		{"empty title", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnnouncementContent(tt.title); got != tt.want {
				t.Errorf("AnnouncementContent(len %d) = %q, want %q", len(tt.title), got, tt.want)
			}
		})
	}
}

func TestAnnouncementContentRuneSafe(t *testing.T) {
	// 150 multi-byte runes must be cut at 100 runes, never mid-character.
	title := strings.Repeat("ğ", 150)
	got := AnnouncementContent(title)
	if got != strings.Repeat("ğ", 100)+"..." {
		t.Errorf("multi-byte truncation broken: %q", got)
	}
}
