package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"finplan/internal/services/storage"
)

// passphraseEnv supplies the passphrase when stdin is not a terminal
const passphraseEnv = "FINPLAN_PASSPHRASE"

// readPassphrase prompts on the terminal without echo, or falls back to the
// environment for service managers and containers
func readPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !interactive() {
		if p := os.Getenv(passphraseEnv); p != "" {
			return p, nil
		}
		return "", fmt.Errorf("stdin is not a terminal and %s is not set", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func unlock(s *storage.Store) error {
	for attempt := 1; attempt <= 3; attempt++ {
		p, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		err = s.Unlock(p)
		if err == nil {
			log.Println("Data directory unlocked")
			return nil
		}
		if !errors.Is(err, storage.ErrWrongPassphrase) || !interactive() {
			return err
		}
		log.Printf("Warning: wrong passphrase (attempt %d of 3)", attempt)
	}
	return storage.ErrWrongPassphrase
}

func enableEncryption(s *storage.Store) error {
	if s.IsEncrypted() {
		log.Println("Data directory is already encrypted")
		return unlock(s)
	}

	p, err := readPassphrase("New passphrase: ")
	if err != nil {
		return err
	}
	if interactive() {
		confirm, err := readPassphrase("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if confirm != p {
			return errors.New("passphrases do not match")
		}
	}
	return s.EnableEncryption(p)
}

func disableEncryption(s *storage.Store) error {
	if !s.IsEncrypted() {
		log.Println("Data directory is not encrypted")
		return nil
	}
	p, err := readPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	return s.DisableEncryption(p)
}
