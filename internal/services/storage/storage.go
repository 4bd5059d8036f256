// Package storage keeps the server's data files under one directory,
// optionally sealed with an age passphrase.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"filippo.io/age"
	json "github.com/goccy/go-json"
)

const (
	// lockMarker exists while the data directory is sealed
	lockMarker = ".sealed"

	// checkFile holds checkPhrase sealed with the current passphrase
	checkFile = ".passphrase-check"

	checkPhrase = `{"app":"finplan","purpose":"passphrase-check","version":1}`

	// DataExt is the extension of every data file the store manages
	DataExt = ".json"
)

var (
	ErrLocked           = errors.New("storage is sealed and locked")
	ErrWrongPassphrase  = errors.New("incorrect passphrase")
	ErrWeakPassphrase   = errors.New("passphrase must be at least 8 characters")
	ErrAlreadyEncrypted = errors.New("encryption is already enabled")
	ErrNotEncrypted     = errors.New("encryption is not enabled")
	ErrInvalidName      = errors.New("invalid data file name")
)

// Store reads and writes named data files, sealing them when encryption is on
type Store struct {
	dir       string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// Open prepares dir as a data directory, creating it if needed
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{dir: dir}
	if _, err := os.Stat(filepath.Join(dir, lockMarker)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// IsEncrypted reports whether files are sealed on disk
func (s *Store) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked reports whether files can be read and written
func (s *Store) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock loads the passphrase after checking it against the check file
func (s *Store) Unlock(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}
	identity, recipient, err := s.verifyPassphrase(passphrase)
	if err != nil {
		return err
	}
	s.identity, s.recipient = identity, recipient
	return nil
}

// Lock forgets the passphrase
func (s *Store) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.recipient = nil
}

// verifyPassphrase requires s.mu to be held
func (s *Store) verifyPassphrase(passphrase string) (*age.ScryptIdentity, *age.ScryptRecipient, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive identity: %w", err)
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive recipient: %w", err)
	}

	sealedCheck, err := os.ReadFile(filepath.Join(s.dir, checkFile))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read passphrase check: %w", err)
	}
	plain, err := unseal(sealedCheck, identity)
	if err != nil || string(plain) != checkPhrase {
		return nil, nil, ErrWrongPassphrase
	}
	return identity, recipient, nil
}

// path resolves a data file name inside the data directory
func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return filepath.Join(s.dir, name), nil
}

// Read returns the plaintext of a data file
func (s *Store) Read(name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	if !isSealed(data) {
		return data, nil
	}
	if s.identity == nil {
		return nil, ErrLocked
	}
	return unseal(data, s.identity)
}

// Write replaces a data file atomically, sealing it when encryption is on
func (s *Store) Write(name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.encrypted {
		if s.recipient == nil {
			return ErrLocked
		}
		if data, err = seal(data, s.recipient); err != nil {
			return fmt.Errorf("failed to seal %s: %w", name, err)
		}
	}
	return replaceFile(p, data)
}

// ReadJSON decodes a data file into v
func (s *Store) ReadJSON(name string, v any) error {
	data, err := s.Read(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// WriteJSON encodes v into a data file
func (s *Store) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return s.Write(name, data)
}

// Exists reports whether a data file is present
func (s *Store) Exists(name string) bool {
	p, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Remove deletes a data file. Removing a missing file is not an error.
func (s *Store) Remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the names of all data files, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !isDataFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isDataFile(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), DataExt)
}

// replaceFile writes through a temp file and renames it into place
func replaceFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
