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

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// MountID identifies one mount of a dashboard view. A fresh one is issued
// per mount so concurrent views over the same dataset stay distinguishable
// in logs.
type MountID ID

func (id MountID) String() string { return ID(id).String() }

// NewMountID issues a mount identifier
func NewMountID() MountID {
	return MountID(NewID())
}

// ParseMountID parses a string into MountID
func ParseMountID(s string) (MountID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("mount ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("mount ID %q is not a uuid: %w", s, err)
	}
	return MountID(s), nil
}
