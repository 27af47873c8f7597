package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no session matches an ID or prefix.
var ErrNotFound = errors.New("session not found")

// AmbiguousIDError is returned when multiple sessions match a prefix
type AmbiguousIDError struct {
	Prefix  string
	Matches []Session
}

func (e *AmbiguousIDError) Error() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Ambiguous session ID %q. Multiple matches found:", e.Prefix))
	for _, match := range e.Matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s, %d messages)",
			match.GetShortID(),
			match.Model,
			match.CreatedAt.Format("2006-01-02"),
			match.MessageCount()))
	}
	lines = append(lines, "")
	lines = append(lines, "Please use a longer prefix or run 'gemchat sessions list'.")
	return strings.Join(lines, "\n")
}

// Store keeps sessions as JSON files in a directory
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the directory where sessions are stored.
// If a config file is used, sessions are stored next to it.
// Otherwise, defaults to $HOME/.config/gemchat/sessions
func DefaultDir(configFile string) (string, error) {
	if configFile != "" {
		configDir := filepath.Dir(configFile)

		if !filepath.IsAbs(configDir) {
			cwd, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("failed to get current working directory: %w", err)
			}
			configDir = filepath.Join(cwd, configDir)
		}

		return filepath.Join(configDir, "sessions"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gemchat", "sessions"), nil
}

// Path returns the file path of the session with the given full ID
func (s *Store) Path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// Save writes a session to disk
func (s *Store) Save(session *Session) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := os.WriteFile(s.Path(session.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load reads a session from disk by full ID
func (s *Store) Load(id string) (*Session, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s (the file may be corrupted): %w", id, err)
	}

	return &session, nil
}

// Delete removes a session from disk by full ID
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.Path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all sessions sorted by UpdatedAt (newest first).
// Files that cannot be parsed are skipped.
func (s *Store) List() ([]Session, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		session, err := s.Load(id)
		if err != nil {
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}

// FindByPrefix finds a session by short ID prefix (minimum 4 characters)
// Returns *AmbiguousIDError if multiple sessions match.
// Special case: "latest" returns the most recently updated session
func (s *Store) FindByPrefix(prefix string) (*Session, error) {
	if prefix == "latest" {
		return s.Latest()
	}

	if len(prefix) < 4 {
		return nil, fmt.Errorf("session ID prefix must be at least 4 characters (got %d)", len(prefix))
	}

	// Full UUID (36 characters with 4 dashes)
	if len(prefix) == 36 && strings.Count(prefix, "-") == 4 {
		return s.Load(prefix)
	}

	sessions, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []Session
	for _, session := range sessions {
		if strings.HasPrefix(session.ID, prefix) {
			matches = append(matches, session)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s (run 'gemchat sessions list' to see available sessions)", ErrNotFound, prefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, &AmbiguousIDError{Prefix: prefix, Matches: matches}
	}
}

// Latest returns the most recently updated session
func (s *Store) Latest() (*Session, error) {
	sessions, err := s.List()
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: no sessions yet (create one with: gemchat chat --new-session \"your message\")", ErrNotFound)
	}

	return &sessions[0], nil
}

// DeleteBefore removes every session last updated before cutoff and
// returns the number removed.
func (s *Store) DeleteBefore(cutoff time.Time) (int, error) {
	sessions, err := s.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, session := range sessions {
		if !session.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := s.Delete(session.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
