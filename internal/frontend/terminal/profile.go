// Package terminal runs the Action Client in a local terminal, either against
// a world file on disk or against a remote game server.
package terminal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/cory-johannsen/adventure/internal/game/session"
)

// Profile is the persisted terminal client state.
type Profile struct {
	// SessionID is the client-generated session token reused across runs.
	SessionID string
	// Game is the short name of the last game played.
	Game string
	// BaseURL is the game server last played against; empty for local play.
	BaseURL string
}

// DefaultProfilePath returns <user config dir>/adventure/profile.ini.
func DefaultProfilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "adventure", "profile.ini"), nil
}

// LoadProfile reads the profile at path. A missing file yields a zero Profile.
// A stored session ID that is not well formed is dropped.
//
// Postcondition: Returns a Profile whose SessionID is empty or valid.
func LoadProfile(path string) (Profile, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Profile{}, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	sec := cfg.Section("session")
	p := Profile{
		SessionID: sec.Key("id").String(),
		Game:      sec.Key("game").String(),
		BaseURL:   cfg.Section("server").Key("base_url").String(),
	}
	if !session.ValidID(p.SessionID) {
		p.SessionID = ""
	}
	return p, nil
}

// SaveProfile writes p to path, creating parent directories.
func SaveProfile(path string, p Profile) error {
	cfg := ini.Empty()
	sec, err := cfg.NewSection("session")
	if err != nil {
		return err
	}
	sec.Key("id").SetValue(p.SessionID)
	sec.Key("game").SetValue(p.Game)
	srv, err := cfg.NewSection("server")
	if err != nil {
		return err
	}
	srv.Key("base_url").SetValue(p.BaseURL)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating profile dir: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("writing profile %s: %w", path, err)
	}
	return nil
}

// EnsureSession returns p with a session ID, generating one when absent.
func (p Profile) EnsureSession() Profile {
	if p.SessionID == "" {
		p.SessionID = session.NewID()
	}
	return p
}
