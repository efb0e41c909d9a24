package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation names a chat that does not exist
	ErrNotFound = errors.New("chat not found")
	// ErrNoActiveChat is returned when a message has no resolvable target chat
	ErrNoActiveChat = errors.New("no active chat")
	// ErrPersistenceUnavailable is returned when durable storage cannot be read or written
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrBusy is returned when a message is sent while a reply is being composed
	ErrBusy = errors.New("awaiting response")
	// ErrEmptyMessage is returned when a send has no text after trimming
	ErrEmptyMessage = errors.New("empty message")
	// ErrInvalidRole is returned for a role other than user or assistant
	ErrInvalidRole = errors.New("invalid role")
)

// StorageError represents errors accessing the key/value backend
type StorageError struct {
	Path string
	Op   string // "open", "read", "write"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrPersistenceUnavailable
func (e *StorageError) Is(target error) bool {
	return target == ErrPersistenceUnavailable
}

// ParseError represents errors decoding a persisted snapshot
type ParseError struct {
	Source string // backend name
	Key    string // storage key
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError names the chat that could not be resolved
type NotFoundError struct {
	ChatID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chat not found: %s", e.ChatID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
