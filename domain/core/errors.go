package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrNoTable         = fmt.Errorf("%w: table", ErrNotFound)

	// Pipeline errors
	ErrNoDataset        = errors.New("no dataset loaded")
	ErrEmptyInput       = errors.New("input has no rows")
	ErrRaggedRow        = errors.New("row has more fields than the header")
	ErrColumnLength     = errors.New("column length does not match dataset")
	ErrNoTableFound     = errors.New("no table found in document")
	ErrGeneratorMissing = errors.New("no text generator configured")

	// Provider errors
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
	ErrMissingAPIKey       = errors.New("missing API key")
	ErrEmptyCompletion     = errors.New("provider returned no text")
)

// NewRaggedRowError reports a record wider than the header
func NewRaggedRowError(row, fields, width int) error {
	return fmt.Errorf("%w: row %d has %d fields, header has %d", ErrRaggedRow, row, fields, width)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
