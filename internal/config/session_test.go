package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempSession(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(SessionEnv, path)
	return path
}

func TestSessionRoundTrip(t *testing.T) {
	path := withTempSession(t)

	session := &Session{
		Base: "https://example.com/++api++",
		Auth: &Auth{Mode: "token", Token: "jwt-token", Username: "admin"},
	}
	require.NoError(t, SaveSession(session))

	loaded, err := LoadSession()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.Base, loaded.Base)
	assert.Equal(t, "jwt-token", loaded.Auth.Token)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	withTempSession(t)

	session, err := LoadSession()
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestLoadSessionMalformed(t *testing.T) {
	path := withTempSession(t)
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0600))

	_, err := LoadSession()
	assert.Error(t, err)
}

func TestTokenFor(t *testing.T) {
	session := &Session{
		Base: "https://example.com/++api++/",
		Auth: &Auth{Mode: "token", Token: "jwt-token"},
	}

	// Trailing slash differences are ignored
	assert.Equal(t, "jwt-token", session.TokenFor("https://example.com/++api++"))
	assert.Equal(t, "", session.TokenFor("https://other.com/++api++"))
	assert.Equal(t, "", (*Session)(nil).TokenFor("https://example.com"))
}

func TestDeleteSessionIdempotent(t *testing.T) {
	withTempSession(t)

	assert.NoError(t, DeleteSession())
	require.NoError(t, SaveSession(&Session{Base: "https://example.com"}))
	assert.NoError(t, DeleteSession())

	session, err := LoadSession()
	assert.NoError(t, err)
	assert.Nil(t, session)
}

func TestBaseURLPrecedence(t *testing.T) {
	withTempSession(t)

	assert.Equal(t, "https://flag.example", BaseURL("https://flag.example"))
	assert.Equal(t, DefaultBase, BaseURL(""))

	require.NoError(t, SaveSession(&Session{Base: "https://saved.example/++api++"}))
	assert.Equal(t, "https://saved.example/++api++", BaseURL(""))
}
