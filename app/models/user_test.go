package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		uname   string
		email   string
		pass    string
		role    string
		wantErr bool
	}{
		{"valid employer", "Jane Doe", "jane@example.com", "secret123", ROLE_EMPLOYER, false},
		{"valid agency", "Acme Staffing", "hi@acme.com", "secret123", ROLE_AGENCY, false},
		{"empty role defaults to employer", "Jane Doe", "jane@example.com", "secret123", "", false},
		{"bad email", "Jane Doe", "not-an-email", "secret123", ROLE_EMPLOYER, true},
		{"short password", "Jane Doe", "jane@example.com", "abc", ROLE_EMPLOYER, true},
		{"bad role", "Jane Doe", "jane@example.com", "secret123", "superuser", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := CreateUser(tt.uname, tt.email, tt.pass, tt.role)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, STATUS_INACTIVE, u.Status)
			if tt.role == "" {
				assert.Equal(t, ROLE_EMPLOYER, u.Role)
			} else {
				assert.Equal(t, tt.role, u.Role)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestGenerateAPIKey(t *testing.T) {
	u := &User{}
	raw, err := u.GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, raw, 48)
	assert.Equal(t, HashAPIKey(raw), u.APIKeyHash)
	assert.NotEqual(t, raw, u.APIKeyHash, "raw key must never be stored")

	// Regeneration invalidates the previous key.
	second, err := u.GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, raw, second)
	assert.Equal(t, HashAPIKey(second), u.APIKeyHash)
}

func TestHashAPIKeyDeterministic(t *testing.T) {
	if HashAPIKey("abc") != HashAPIKey("abc") {
		t.Fatalf("expected identical hashes for identical input")
	}
	if HashAPIKey("abc") == HashAPIKey("abd") {
		t.Fatalf("expected different hashes for different input")
	}
}
