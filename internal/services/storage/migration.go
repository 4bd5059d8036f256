package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"filippo.io/age"
)

// MinPassphraseLength is the shortest passphrase EnableEncryption accepts
const MinPassphraseLength = 8

// EnableEncryption seals every data file with passphrase and leaves the
// store unlocked. On failure, files already sealed are restored.
func (s *Store) EnableEncryption(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encrypted {
		return ErrAlreadyEncrypted
	}
	if len(passphrase) < MinPassphraseLength {
		return ErrWeakPassphrase
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("failed to derive recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("failed to derive identity: %w", err)
	}

	check, err := seal([]byte(checkPhrase), recipient)
	if err != nil {
		return fmt.Errorf("failed to seal passphrase check: %w", err)
	}
	checkPath := filepath.Join(s.dir, checkFile)
	if err := replaceFile(checkPath, check); err != nil {
		return fmt.Errorf("failed to write passphrase check: %w", err)
	}

	done, err := s.transformAll(func(data []byte) ([]byte, error) {
		if isSealed(data) {
			return data, nil
		}
		return seal(data, recipient)
	})
	if err != nil {
		s.rollback(done, func(data []byte) ([]byte, error) { return unseal(data, identity) })
		os.Remove(checkPath)
		return fmt.Errorf("failed to seal data files: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, lockMarker), []byte("sealed\n"), 0644); err != nil {
		return fmt.Errorf("failed to write seal marker: %w", err)
	}

	s.encrypted = true
	s.identity, s.recipient = identity, recipient
	log.Printf("Sealed %d data files", len(done))
	return nil
}

// DisableEncryption restores every data file to plaintext
func (s *Store) DisableEncryption(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return ErrNotEncrypted
	}
	identity, _, err := s.verifyPassphrase(passphrase)
	if err != nil {
		return err
	}

	done, err := s.transformAll(func(data []byte) ([]byte, error) {
		if !isSealed(data) {
			return data, nil
		}
		return unseal(data, identity)
	})
	if err != nil {
		return fmt.Errorf("failed to unseal data files (%d done): %w", len(done), err)
	}

	os.Remove(filepath.Join(s.dir, lockMarker))
	os.Remove(filepath.Join(s.dir, checkFile))

	s.encrypted = false
	s.identity, s.recipient = nil, nil
	log.Printf("Unsealed %d data files", len(done))
	return nil
}

// transformAll rewrites each data file through fn. It returns the files
// rewritten before the first failure. Requires s.mu to be held.
func (s *Store) transformAll(fn func([]byte) ([]byte, error)) ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	var done []string
	for _, name := range names {
		p := filepath.Join(s.dir, name)
		data, err := os.ReadFile(p)
		if err != nil {
			return done, fmt.Errorf("%s: %w", name, err)
		}
		out, err := fn(data)
		if err != nil {
			return done, fmt.Errorf("%s: %w", name, err)
		}
		if err := replaceFile(p, out); err != nil {
			return done, fmt.Errorf("%s: %w", name, err)
		}
		done = append(done, name)
	}
	return done, nil
}

// rollback is best effort; failures are logged
func (s *Store) rollback(names []string, fn func([]byte) ([]byte, error)) {
	for _, name := range names {
		p := filepath.Join(s.dir, name)
		data, err := os.ReadFile(p)
		if err != nil {
			log.Printf("Warning: rollback of %s: %v", name, err)
			continue
		}
		out, err := fn(data)
		if err != nil {
			log.Printf("Warning: rollback of %s: %v", name, err)
			continue
		}
		if err := replaceFile(p, out); err != nil {
			log.Printf("Warning: rollback of %s: %v", name, err)
		}
	}
}
