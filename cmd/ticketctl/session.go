package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

// storedSession is the on-disk form of a CLI login. The credential is
// kept under "token", the same key the web session uses.
type storedSession struct {
	Token string     `yaml:"token"`
	User  storedUser `yaml:"user,omitempty"`
	API   string     `yaml:"api,omitempty"`
}

type storedUser struct {
	ID    string `yaml:"id,omitempty"`
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ticketctl", "session.yaml")
}

// loadSession returns ok=false when no credential is stored.
func loadSession(path string) (storedSession, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return storedSession{}, false, nil
	}
	if err != nil {
		return storedSession{}, false, fmt.Errorf("read session file: %w", err)
	}

	var s storedSession
	if err := yaml.Unmarshal(data, &s); err != nil {
		return storedSession{}, false, fmt.Errorf("parse session file %s: %w", path, err)
	}
	return s, s.Token != "", nil
}

func saveSession(path, api string, result models.AuthResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := yaml.Marshal(storedSession{
		Token: result.Token,
		User:  storedUser{ID: result.User.ID, Name: result.User.Name, Email: result.User.Email},
		API:   api,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
