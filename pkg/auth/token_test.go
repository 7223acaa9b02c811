package auth_test

import (
	"testing"
	"time"

	"go-survey-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate(42, "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, username, err := tm.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "alice", username)
}

func TestTokenRejection(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	t.Run("Garbage token", func(t *testing.T) {
		_, _, err := tm.Validate("not-a-token")
		assert.Error(t, err)
	})

	t.Run("Token signed with a different key", func(t *testing.T) {
		other := auth.NewTokenManager("other-secret", time.Hour)
		token, err := other.Generate(42, "alice")
		assert.NoError(t, err)

		_, _, err = tm.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := auth.NewTokenManager("test-secret", -time.Minute)
		token, err := expired.Generate(42, "alice")
		assert.NoError(t, err)

		_, _, err = tm.Validate(token)
		assert.Error(t, err)
	})
}

func TestEmptySecretGetsEphemeralKey(t *testing.T) {
	a := auth.NewTokenManager("", time.Hour)
	b := auth.NewTokenManager("", time.Hour)

	token, err := a.Generate(1, "alice")
	assert.NoError(t, err)

	// A token from one ephemeral manager must not validate on another
	_, _, err = b.Validate(token)
	assert.Error(t, err)

	_, _, err = a.Validate(token)
	assert.NoError(t, err)
}
