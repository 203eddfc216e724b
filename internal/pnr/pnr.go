// Package pnr generates and validates reservation codes: 10 characters
// drawn uniformly from [A-Z0-9].
package pnr

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	Length   = 10
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Bytes >= maxUnbiased are rejected so every symbol has equal weight.
const maxUnbiased = 256 - (256 % len(Alphabet))

// Generator produces candidate codes.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws from Source, or crypto/rand when Source is nil.
type RandomGenerator struct {
	Source io.Reader
}

func (g RandomGenerator) Generate() (string, error) {
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	return Generate(src)
}

// Generate reads from src until Length symbols have been accepted.
func Generate(src io.Reader) (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(out) < Length {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}

// Normalize trims and upper-cases user input.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is exactly Length characters of Alphabet.
// It expects normalized input.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Parse normalizes and validates in one step.
func Parse(code string) (string, bool) {
	n := Normalize(code)
	return n, Valid(n)
}
