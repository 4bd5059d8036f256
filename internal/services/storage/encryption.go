package storage

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"
)

// ageMagic starts every binary age file
const ageMagic = "age-encryption.org/v1\n"

func isSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(ageMagic))
}

func seal(plain []byte, recipient age.Recipient) ([]byte, error) {
	var out bytes.Buffer
	w, err := age.Encrypt(&out, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(plain); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish age stream: %w", err)
	}
	return out.Bytes(), nil
}

func unseal(sealed []byte, identity age.Identity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(sealed), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
