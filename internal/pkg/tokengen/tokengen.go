// Package tokengen produces login codes and QR tokens and guards them against collisions
// with values that are already persisted.
package tokengen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	CodeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength     = 5
	DefaultRetries = 200
)

var ErrGenerationExhausted = errors.New("token generation exhausted")

// GenerateCode returns a CodeLength string drawn from CodeAlphabet.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(CodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("rand.Int -> %w", err)
		}
		buf[i] = CodeAlphabet[n.Int64()]
	}

	return string(buf), nil
}

// GenerateQRToken returns a random UUID v4 in its canonical textual form.
func GenerateQRToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("uuid.NewRandom -> %w", err)
	}

	return id.String(), nil
}

// Unique draws from gen until taken reports a free value. It gives up with
// ErrGenerationExhausted after retries attempts.
func Unique(gen func() (string, error), taken func(string) (bool, error), retries int) (string, error) {
	if retries <= 0 {
		retries = DefaultRetries
	}

	for i := 0; i < retries; i++ {
		candidate, err := gen()
		if err != nil {
			return "", err
		}

		exists, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("taken -> %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrGenerationExhausted
}

// Set is an in-memory view of persisted values, used for batch generation.
type Set map[string]struct{}

func NewSet(values []string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s Set) Taken(v string) (bool, error) {
	_, ok := s[v]
	return ok, nil
}

func (s Set) Add(v string) {
	s[v] = struct{}{}
}

// Draw generates a value absent from s and records it, so repeated draws never repeat.
func (s Set) Draw(gen func() (string, error), retries int) (string, error) {
	v, err := Unique(gen, s.Taken, retries)
	if err != nil {
		return "", err
	}
	s.Add(v)

	return v, nil
}
