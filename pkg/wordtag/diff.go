package wordtag

import (
	"fmt"
	"strings"
)

// ConflictMethod decides the details kept for a key present on both sides of a diff.
type ConflictMethod int

const (
	// Override keeps the other collection's details.
	Override ConflictMethod = iota
	// Join concatenates this collection's details with the other's, without a separator.
	Join
)

// String returns the lower-case name of the method.
func (m ConflictMethod) String() string {
	switch m {
	case Override:
		return "override"
	case Join:
		return "join"
	default:
		return fmt.Sprintf("ConflictMethod(%d)", int(m))
	}
}

// Valid reports whether m is a known method.
func (m ConflictMethod) Valid() bool {
	return m == Override || m == Join
}

// MarshalText implements encoding.TextMarshaler.
func (m ConflictMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ConflictMethod) UnmarshalText(text []byte) error {
	parsed, ok := ParseConflictMethod(string(text))
	if !ok {
		return fmt.Errorf("unknown conflict method %q", text)
	}
	*m = parsed
	return nil
}

// ParseConflictMethod parses a case-insensitive method name.
func ParseConflictMethod(s string) (ConflictMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "override":
		return Override, true
	case "join":
		return Join, true
	}
	return Override, false
}

// Diff is the three-way partition produced by Collection.Diff.
type Diff struct {
	// OnlyInSelf holds entries of the receiver whose keys the other lacks.
	OnlyInSelf *Collection
	// OnlyInOther holds entries of the other whose keys the receiver lacks,
	// carrying the other's details.
	OnlyInOther *Collection
	// Both holds every shared key with details resolved by the conflict method.
	Both *Collection
}

// Diff partitions the union of keys of c and other. Neither input is modified.
// An unknown method leaves Both empty while still classifying the one-sided keys.
func (c *Collection) Diff(other *Collection, method ConflictMethod) Diff {
	d := Diff{OnlyInSelf: New(), OnlyInOther: New(), Both: New()}

	for key, theirs := range other.entries {
		ours, ok := c.entries[key]
		switch {
		case !ok:
			d.OnlyInOther.entries[key] = theirs
		case method == Override:
			d.Both.entries[key] = theirs
		case method == Join:
			d.Both.entries[key] = ours + theirs
		}
	}

	for key, ours := range c.entries {
		if _, ok := other.entries[key]; !ok {
			d.OnlyInSelf.entries[key] = ours
		}
	}

	return d
}

// Empty reports whether the diff contains no entries at all.
func (d Diff) Empty() bool {
	return d.OnlyInSelf.Len() == 0 && d.OnlyInOther.Len() == 0 && d.Both.Len() == 0
}
