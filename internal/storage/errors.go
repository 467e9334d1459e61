package storage

import (
	"errors"
	"fmt"
	"statcache/internal/models"
)

// Error classes. Every failure surfaced by the accessors matches exactly one
// of the first four through errors.Is.
var (
	ErrNotConfigured = errors.New("store endpoint not configured")
	ErrConnection    = errors.New("store connection failed")
	ErrQuery         = errors.New("store query failed")
	ErrWrite         = errors.New("store write failed")

	ErrNotFound = errors.New("record not found")
	ErrEmptyKey = errors.New("empty record key")
)

// OpError carries the operation context of a failed read or write.
type OpError struct {
	Op    string
	Kind  models.Kind
	Key   string
	Class error
	Err   error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s/%s: %s", e.Op, e.Kind, e.Key, e.Class)
	}
	return fmt.Sprintf("%s %s/%s: %s: %s", e.Op, e.Kind, e.Key, e.Class, e.Err)
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

func NewOpError(op string, kind models.Kind, key string, class, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Key: key, Class: class, Err: err}
}

// Classify returns ErrConnection for transport failures and class otherwise.
func Classify(err error, class error) error {
	if errors.Is(err, ErrConnection) || isTransportError(err) {
		return ErrConnection
	}
	return class
}
