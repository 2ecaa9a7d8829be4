package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// SessionID identifies one uploaded dataset and its report
type SessionID ID

func (id SessionID) String() string { return ID(id).String() }

// NewSessionID creates a time-ordered session identifier
func NewSessionID() SessionID { return SessionID(NewID()) }

// ParseSessionID accepts only well-formed UUIDs
func ParseSessionID(s string) (SessionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid session ID %q: %w", s, err)
	}
	return SessionID(id.String()), nil
}
