// Package kv defines the key-value slot storage the todo store persists into.
// A slot is a named blob; writers overwrite the whole value.
package kv

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value slot store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateKey rejects keys that would not be safe as file names.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}
