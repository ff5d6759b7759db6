package sync

import (
	"fmt"
	"strings"

	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/logging"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// SourcePriority names the side whose values win a conflict and whose
// membership drives deletion.
type SourcePriority int

const (
	// PriorityExternal makes the external service authoritative.
	PriorityExternal SourcePriority = iota
	// PriorityCached makes the local store authoritative.
	PriorityCached
)

// String returns the lower-case name of the priority.
func (p SourcePriority) String() string {
	switch p {
	case PriorityExternal:
		return "external"
	case PriorityCached:
		return "cached"
	default:
		return fmt.Sprintf("SourcePriority(%d)", int(p))
	}
}

// Valid reports whether p is a known priority.
func (p SourcePriority) Valid() bool {
	return p == PriorityExternal || p == PriorityCached
}

// MarshalText implements encoding.TextMarshaler.
func (p SourcePriority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *SourcePriority) UnmarshalText(text []byte) error {
	parsed, err := ParseSourcePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// DeletionControl decides whether entries missing from the authoritative side are removed.
type DeletionControl int

const (
	// Merge never deletes local rows.
	Merge DeletionControl = iota
	// Delete removes local rows the external service no longer has.
	// It only takes effect together with PriorityExternal.
	Delete
)

// String returns the lower-case name of the control.
func (d DeletionControl) String() string {
	switch d {
	case Merge:
		return "merge"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("DeletionControl(%d)", int(d))
	}
}

// Valid reports whether d is a known control.
func (d DeletionControl) Valid() bool {
	return d == Merge || d == Delete
}

// MarshalText implements encoding.TextMarshaler.
func (d DeletionControl) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DeletionControl) UnmarshalText(text []byte) error {
	parsed, err := ParseDeletionControl(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Policy is the reconciliation policy for one sync call.
// The zero value equals DefaultPolicy.
type Policy struct {
	ConflictMethod  wordtag.ConflictMethod `json:"conflict" yaml:"conflict"`
	SourcePriority  SourcePriority         `json:"priority" yaml:"priority"`
	DeletionControl DeletionControl        `json:"deletion" yaml:"deletion"`
}

// DefaultPolicy returns Override / External / Merge.
func DefaultPolicy() Policy {
	return Policy{
		ConflictMethod:  wordtag.Override,
		SourcePriority:  PriorityExternal,
		DeletionControl: Merge,
	}
}

// Sanitize replaces every unrecognized setting with its default.
// Callers must not rely on invalid settings being rejected here.
func (p Policy) Sanitize() Policy {
	def := DefaultPolicy()
	if !p.ConflictMethod.Valid() {
		p.ConflictMethod = def.ConflictMethod
	}
	if !p.SourcePriority.Valid() {
		p.SourcePriority = def.SourcePriority
	}
	if !p.DeletionControl.Valid() {
		p.DeletionControl = def.DeletionControl
	}
	return p
}

// Validate reports the first unrecognized setting.
func (p Policy) Validate() error {
	switch {
	case !p.ConflictMethod.Valid():
		return errors.NewValidationError("conflict", int(p.ConflictMethod), "unknown conflict method")
	case !p.SourcePriority.Valid():
		return errors.NewValidationError("priority", int(p.SourcePriority), "unknown source priority")
	case !p.DeletionControl.Valid():
		return errors.NewValidationError("deletion", int(p.DeletionControl), "unknown deletion control")
	}
	return nil
}

// DeletesMissing reports whether the policy removes local rows absent externally.
func (p Policy) DeletesMissing() bool {
	return p.DeletionControl == Delete && p.SourcePriority == PriorityExternal
}

// String renders the policy as "conflict/priority/deletion".
func (p Policy) String() string {
	return p.ConflictMethod.String() + "/" + p.SourcePriority.String() + "/" + p.DeletionControl.String()
}

// ParseConflictMethod parses "override" or "join", case-insensitively.
func ParseConflictMethod(s string) (wordtag.ConflictMethod, error) {
	m, ok := wordtag.ParseConflictMethod(s)
	if !ok {
		return m, errors.NewValidationError("conflict", s, "must be one of override, join")
	}
	return m, nil
}

// ParseSourcePriority parses "external" or "cached", case-insensitively.
func ParseSourcePriority(s string) (SourcePriority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "external":
		return PriorityExternal, nil
	case "cached":
		return PriorityCached, nil
	}
	return PriorityExternal, errors.NewValidationError("priority", s, "must be one of external, cached")
}

// ParseDeletionControl parses "merge" or "delete", case-insensitively.
func ParseDeletionControl(s string) (DeletionControl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "merge":
		return Merge, nil
	case "delete":
		return Delete, nil
	}
	return Merge, errors.NewValidationError("deletion", s, "must be one of merge, delete")
}

// ParsePolicy strictly parses the three settings. Empty strings select the default.
func ParsePolicy(conflict, priority, deletion string) (Policy, error) {
	p := DefaultPolicy()
	var err error
	if conflict != "" {
		if p.ConflictMethod, err = ParseConflictMethod(conflict); err != nil {
			return DefaultPolicy(), err
		}
	}
	if priority != "" {
		if p.SourcePriority, err = ParseSourcePriority(priority); err != nil {
			return DefaultPolicy(), err
		}
	}
	if deletion != "" {
		if p.DeletionControl, err = ParseDeletionControl(deletion); err != nil {
			return DefaultPolicy(), err
		}
	}
	return p, nil
}

// PolicyFromStrings leniently parses the three settings on top of base.
// Empty strings keep base's value; unknown names fall back to the default
// with a warning.
func PolicyFromStrings(base Policy, conflict, priority, deletion string) Policy {
	p := base.Sanitize()
	def := DefaultPolicy()

	if conflict != "" {
		if m, err := ParseConflictMethod(conflict); err == nil {
			p.ConflictMethod = m
		} else {
			logging.Warn().Str("conflict", conflict).Msg("Unknown conflict method, using default")
			p.ConflictMethod = def.ConflictMethod
		}
	}
	if priority != "" {
		if sp, err := ParseSourcePriority(priority); err == nil {
			p.SourcePriority = sp
		} else {
			logging.Warn().Str("priority", priority).Msg("Unknown source priority, using default")
			p.SourcePriority = def.SourcePriority
		}
	}
	if deletion != "" {
		if dc, err := ParseDeletionControl(deletion); err == nil {
			p.DeletionControl = dc
		} else {
			logging.Warn().Str("deletion", deletion).Msg("Unknown deletion control, using default")
			p.DeletionControl = def.DeletionControl
		}
	}
	return p
}
