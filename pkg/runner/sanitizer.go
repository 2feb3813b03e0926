package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 4KB, far above any expression typed by hand.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "ABACUS_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer enforces the input policy shared by every host.
// A zero Limit falls back to the environment and then to DefaultMaxInputSize.
type Sanitizer struct {
	Limit int
}

// SanitizeInput cleans an expression line with the default policy.
func SanitizeInput(input string) (string, error) {
	return Sanitizer{}.Clean(input)
}

// Clean enforces the size limit, validates UTF-8 and strips control
// characters. Expressions are single-line, so only tab survives.
func (s Sanitizer) Clean(input string) (string, error) {
	limit := s.limit()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func (s Sanitizer) limit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return getMaxInputSize()
}

func isSafeControl(r rune) bool {
	return r == '\t'
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
