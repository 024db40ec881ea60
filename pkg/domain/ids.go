package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID is a generational handle to a node slot in a graph arena.
// The zero value is never a valid id.
type NodeID struct {
	Index uint32
	Gen   uint32
}

// ConnectionID is a generational handle to a connection slot in a graph arena.
// The zero value is never a valid id.
type ConnectionID struct {
	Index uint32
	Gen   uint32
}

// IsZero reports whether the id is unset.
func (id NodeID) IsZero() bool { return id.Gen == 0 }

// IsZero reports whether the id is unset.
func (id ConnectionID) IsZero() bool { return id.Gen == 0 }

func (id NodeID) String() string {
	return formatID('n', id.Index, id.Gen)
}

func (id ConnectionID) String() string {
	return formatID('c', id.Index, id.Gen)
}

// MarshalText encodes the id as "n<index>.<gen>".
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes an id produced by MarshalText.
func (id *NodeID) UnmarshalText(text []byte) error {
	idx, gen, err := parseID('n', string(text))
	if err != nil {
		return err
	}
	*id = NodeID{Index: idx, Gen: gen}
	return nil
}

// MarshalText encodes the id as "c<index>.<gen>".
func (id ConnectionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes an id produced by MarshalText.
func (id *ConnectionID) UnmarshalText(text []byte) error {
	idx, gen, err := parseID('c', string(text))
	if err != nil {
		return err
	}
	*id = ConnectionID{Index: idx, Gen: gen}
	return nil
}

// ParseNodeID parses the text form of a NodeID.
func ParseNodeID(s string) (NodeID, error) {
	var id NodeID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// ParseConnectionID parses the text form of a ConnectionID.
func ParseConnectionID(s string) (ConnectionID, error) {
	var id ConnectionID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

func formatID(prefix byte, idx, gen uint32) string {
	if gen == 0 {
		return string(prefix) + "-"
	}
	return fmt.Sprintf("%c%d.%d", prefix, idx, gen)
}

func parseID(prefix byte, s string) (uint32, uint32, error) {
	if s == string(prefix)+"-" || s == "" {
		return 0, 0, nil
	}
	if s[0] != prefix {
		return 0, 0, fmt.Errorf("invalid id %q: expected prefix %q", s, prefix)
	}
	idxStr, genStr, ok := strings.Cut(s[1:], ".")
	if !ok {
		return 0, 0, fmt.Errorf("invalid id %q: missing generation", s)
	}
	idx, err := strconv.ParseUint(idxStr, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	gen, err := strconv.ParseUint(genStr, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return uint32(idx), uint32(gen), nil
}
