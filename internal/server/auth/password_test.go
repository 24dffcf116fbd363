package auth

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSetPassword_UsesRequestedCost(t *testing.T) {
	u := &models.User{UserName: "alice"}
	require.NoError(t, SetPassword(u, "alicepw1", DefaultBcryptCost))

	cost, err := bcrypt.Cost([]byte(u.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
	assert.NotContains(t, u.PasswordHash, "alicepw1")
}

func TestSetPassword_ReplacesHash(t *testing.T) {
	u := &models.User{UserName: "alice"}
	require.NoError(t, SetPassword(u, "first", bcrypt.MinCost))
	first := u.PasswordHash
	require.NoError(t, SetPassword(u, "second", bcrypt.MinCost))
	assert.NotEqual(t, first, u.PasswordHash)

	ok, err := CheckPassword(u, "first")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_RoundTripAndDiscrimination(t *testing.T) {
	pairs := []struct{ username, password, other string }{
		{"alice", "alicepw1", "alicepw2"},
		{"bob", "p", "P"},
		{"carol", "비밀번호", "비밀번호 "},
		{"dave", "", "x"},
	}

	for _, p := range pairs {
		t.Run(p.username, func(t *testing.T) {
			u := &models.User{UserName: p.username}
			require.NoError(t, SetPassword(u, p.password, bcrypt.MinCost))

			ok, err := CheckPassword(u, p.password)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = CheckPassword(u, p.other)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$99$abcdefghijklmnopqrstuuJ1Hc0Y4lJ1Hc0Y4lJ1Hc0Y4lJ1Hc0Y4"} {
		u := &models.User{UserName: "alice", PasswordHash: hash}
		ok, err := CheckPassword(u, "whatever")
		assert.False(t, ok)
		assert.True(t, errors.Is(err, common.ErrorIntegrity), "hash %q: got %v", hash, err)
	}
}

func TestSetPassword_TooLong(t *testing.T) {
	u := &models.User{UserName: "alice"}
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, SetPassword(u, string(long), bcrypt.MinCost))
}
