package validation

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"User@Example.COM", true},
		{"  user@example.com  ", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "passw0rd", true},
		{"too short", "a1b2c3", false},
		{"letters only", "passwordd", false},
		{"digits only", "123456789", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPassword(tt.password); got != tt.want {
				t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestTrimmedNonEmpty(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"hello", "hello", true},
		{"  hello  ", "hello", true},
		{"", "", false},
		{"   ", "", false},
		{"\t\n", "", false},
	}

	for _, tt := range tests {
		got, ok := TrimmedNonEmpty(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("TrimmedNonEmpty(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWithinLength(t *testing.T) {
	if !WithinLength(strings.Repeat("a", 200), 200) {
		t.Error("200 ascii chars should fit in 200")
	}
	if WithinLength(strings.Repeat("a", 201), 200) {
		t.Error("201 ascii chars should not fit in 200")
	}
	// Counted in runes, not bytes.
	if !WithinLength(strings.Repeat("ş", 200), 200) {
		t.Error("200 multi-byte runes should fit in 200")
	}
}
