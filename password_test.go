package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		email    string
		want     []string
	}{
		{"strong", "SecurePass123!", "testuser", "test@example.com", nil},
		{"unrelated to email local part", "FlowPass123!", "flowtester", "flow@example.com", nil},
		{"too short", "Ab3$xyz", "testuser", "test@example.com", []string{
			"This password is too short. It must contain at least 8 characters.",
		}},
		{"common", "password", "testuser", "test@example.com", []string{
			"This password is too common.",
		}},
		{"common ignores case", "PassWord123", "testuser", "test@example.com", []string{
			"This password is too common.",
		}},
		{"entirely numeric", "83920174", "testuser", "test@example.com", []string{
			"This password is entirely numeric.",
		}},
		{"common and numeric", "12345678", "testuser", "test@example.com", []string{
			"This password is too common.",
			"This password is entirely numeric.",
		}},
		{"similar to username", "johnsmith1", "johnsmith", "js@example.com", []string{
			"The password is too similar to the username.",
		}},
		{"longer than bcrypt accepts", "Xk9#" + strings.Repeat("qz7!", 20), "testuser", "test@example.com", []string{
			"This password is too long. It must contain at most 72 bytes.",
		}},
		{"72 bytes is accepted", strings.Repeat("Qw3$", 18), "testuser", "test@example.com", nil},
		{"very long password skips similarity", strings.Repeat("testuser", 1<<17), "testuser", "test@example.com", []string{
			"This password is too long. It must contain at most 72 bytes.",
		}},
		{"similar to email part", "garcia12", "mg2000", "maria.garcia@example.com", []string{
			"The password is too similar to the email address.",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passwordProblems(tt.password, tt.username, tt.email))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 2.0/3.0, similarity("abc", "abd"), 1e-9)
	assert.InDelta(t, 0.0, similarity("", ""), 1e-9)
	assert.False(t, tooSimilar("anything", ""))
}
