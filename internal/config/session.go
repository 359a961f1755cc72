package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/plonetools/tagctl/pkg/constants"
	"github.com/plonetools/tagctl/pkg/errors"
)

// SessionEnv names the environment variable overriding the session file path.
const SessionEnv = "TAGCTL_CONFIG"

// Session holds the saved connection state for one repository: the API base
// URL and, after login, the bearer token issued by @login.
type Session struct {
	Base string `yaml:"base"`
	Auth *Auth  `yaml:"auth,omitempty"`
}

// Auth holds saved credentials. Only token mode is supported.
type Auth struct {
	Mode     string `yaml:"mode"`
	Token    string `yaml:"token"`
	Username string `yaml:"username,omitempty"`
}

// TokenFor returns the saved bearer token when the session matches base,
// or the empty string. Trailing-slash differences are ignored.
func (s *Session) TokenFor(base string) string {
	if s == nil || s.Auth == nil || s.Auth.Mode != "token" {
		return ""
	}
	if strings.TrimRight(s.Base, "/") != strings.TrimRight(base, "/") {
		return ""
	}
	return s.Auth.Token
}

// SessionPath returns the session file location, honoring TAGCTL_CONFIG.
func SessionPath() string {
	if env := os.Getenv(SessionEnv); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".tagctl", "config.yaml")
	}
	return filepath.Join(home, ".config", "tagctl", "config.yaml")
}

// LoadSession reads the saved session. A missing file is not an error and
// returns (nil, nil); a malformed file is reported as a ConfigError.
func LoadSession() (*Session, error) {
	data, err := os.ReadFile(SessionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewConfigError("session", "cannot read session file", err)
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, errors.NewConfigError("session", "cannot parse session file", err)
	}
	return &session, nil
}

// SaveSession writes the session file with owner-only permissions.
func SaveSession(session *Session) error {
	path := SessionPath()
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.NewConfigError("session", "cannot create config directory", err)
	}

	data, err := yaml.Marshal(session)
	if err != nil {
		return errors.NewConfigError("session", "cannot encode session", err)
	}
	if err := os.WriteFile(path, data, constants.SecureFilePermissions); err != nil {
		return errors.NewConfigError("session", "cannot write session file", err)
	}
	return nil
}

// DeleteSession removes the session file. Deleting a missing file is a no-op.
func DeleteSession() error {
	err := os.Remove(SessionPath())
	if err != nil && !os.IsNotExist(err) {
		return errors.NewConfigError("session", "cannot delete session file", err)
	}
	return nil
}
