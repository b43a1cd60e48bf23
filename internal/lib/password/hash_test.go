package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

func TestHasher_Hash(t *testing.T) {
	h := NewHasher(4)

	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "Password123!"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "short password", password: "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, gotHash)
			assert.NotEqual(t, tt.password, gotHash)
			assert.True(t, h.Verify(tt.password, gotHash))
		})
	}
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher(4)
	correctHash, err := h.Hash("correct_password")
	require.NoError(t, err)
	anotherHash, err := h.Hash("another_password")
	require.NoError(t, err)

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", shouldMatch: true},
		{name: "wrong password", hash: correctHash, password: "wrong_password", shouldMatch: false},
		{name: "different hash same password", hash: anotherHash, password: "correct_password", shouldMatch: false},
		{name: "empty password", hash: correctHash, password: "", shouldMatch: false},
		{name: "malformed hash", hash: "not-a-hash", password: "correct_password", shouldMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.shouldMatch, h.Verify(tt.password, tt.hash))
		})
	}
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0).cost)
	assert.Equal(t, DefaultCost, NewHasher(100).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}

func TestHasher_DifferentPasswordsProduceDifferentHashes(t *testing.T) {
	h := NewHasher(4)
	hash1, err := h.Hash("password1")
	require.NoError(t, err)
	hash2, err := h.Hash("password2")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "strong password", password: "Str0ng!pass", wantErr: false},
		{name: "exactly 8 chars", password: "Aa1!aaaa", wantErr: false},
		{name: "too short", password: "Aa1!aaa", wantErr: true},
		{name: "no upper case", password: "weak0!pass", wantErr: true},
		{name: "no lower case", password: "WEAK0!PASS", wantErr: true},
		{name: "no digit", password: "Weak!pass", wantErr: true},
		{name: "no symbol", password: "Weak0pass", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrWeakPassword)
				assert.ErrorIs(t, err, models.ErrValidationFailed)
				return
			}
			assert.NoError(t, err)
		})
	}
}
