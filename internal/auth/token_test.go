package auth

import (
	"strings"
	"testing"
)

func TestGenerateDeviceToken(t *testing.T) {
	token := GenerateDeviceToken()

	if !strings.HasPrefix(token, "fd_") {
		t.Errorf("Expected fd_ prefix, got %q", token)
	}
	if len(token) != 35 {
		t.Errorf("Expected 35 characters total, got %d", len(token))
	}
	if !IsValidTokenFormat(token) {
		t.Errorf("Expected a generated token to pass the format check: %q", token)
	}
}

func TestGenerateDeviceToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := GenerateDeviceToken()
		if seen[token] {
			t.Fatalf("Generated duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestIsValidTokenFormat(t *testing.T) {
	cases := []struct {
		token string
		valid bool
	}{
		{GenerateDeviceToken(), true},
		{"", false},
		{"fd_short", false},
		{"xx_" + strings.Repeat("a", 32), false},
		{"fd_" + strings.Repeat("a", 31) + "!", false},
		{"fd_" + strings.Repeat("a", 33), false},
		{"fd_" + strings.Repeat("A", 16) + strings.Repeat("9", 16), true},
	}

	for _, tc := range cases {
		if got := IsValidTokenFormat(tc.token); got != tc.valid {
			t.Errorf("IsValidTokenFormat(%q) = %v, want %v", tc.token, got, tc.valid)
		}
	}
}

func TestGenerateInviteToken(t *testing.T) {
	token := GenerateInviteToken()

	if !strings.HasPrefix(token, "inv_") {
		t.Errorf("Expected inv_ prefix, got %q", token)
	}
	if len(token) != 28 {
		t.Errorf("Expected 28 characters total, got %d", len(token))
	}
	for _, c := range token[4:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			t.Errorf("Expected lowercase alphanumerics only, got %q in %q", c, token)
		}
	}
}
