package wordtag

import (
	"cmp"
	"iter"
	"slices"
	"unicode/utf8"

	"github.com/agentstation/wordblox/pkg/errors"
)

// Entry is one tag/word pair with its details.
type Entry struct {
	Tag     string `json:"tag" yaml:"tag"`
	Word    string `json:"word" yaml:"word"`
	Details string `json:"details" yaml:"details"`
}

// Key returns the composite key of the entry.
func (e Entry) Key() string {
	return e.Tag + Separator + e.Word
}

// Collection maps composite keys to details. The zero value is not usable; call New.
// A Collection is not safe for concurrent mutation.
type Collection struct {
	entries map[string]string
}

// New returns an empty collection.
func New() *Collection {
	return &Collection{entries: make(map[string]string)}
}

// FromEntries builds a collection from entries, stopping at the first invalid one.
func FromEntries(entries ...Entry) (*Collection, error) {
	c := New()
	for _, e := range entries {
		if err := c.Add(e.Tag, e.Word, e.Details); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add stores details under the key for tag and word, replacing any prior value.
func (c *Collection) Add(tag, word, details string) error {
	if err := validateParts(tag, word); err != nil {
		return err
	}
	c.entries[tag+Separator+word] = details
	return nil
}

// AddWithKey stores details under an already combined key.
// It reports false, leaving the collection unchanged, when key is invalid.
// Details that are not valid UTF-8 are replaced by DefaultDetails.
func (c *Collection) AddWithKey(key, details string) bool {
	if !ValidKey(key) {
		return false
	}
	if !utf8.ValidString(details) {
		details = DefaultDetails
	}
	c.entries[key] = details
	return true
}

// Get returns the details stored for tag and word.
func (c *Collection) Get(tag, word string) (string, bool) {
	key, ok := Combine(tag, word)
	if !ok {
		return "", false
	}
	details, ok := c.entries[key]
	return details, ok
}

// GetWithKey returns the details stored under key. Invalid keys report a miss.
func (c *Collection) GetWithKey(key string) (string, bool) {
	if !ValidKey(key) {
		return "", false
	}
	details, ok := c.entries[key]
	return details, ok
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// All yields every entry exactly once in unspecified order.
// Each call starts a fresh traversal.
func (c *Collection) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for key, details := range c.entries {
			tag, word, _ := Separate(key)
			if !yield(Entry{Tag: tag, Word: word, Details: details}) {
				return
			}
		}
	}
}

// Entries returns every entry ordered by tag, then word.
func (c *Collection) Entries() []Entry {
	out := slices.AppendSeq(make([]Entry, 0, len(c.entries)), c.All())
	slices.SortFunc(out, compareEntries)
	return out
}

// Keys returns the composite keys in the same order as Entries.
func (c *Collection) Keys() []string {
	entries := c.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key()
	}
	return keys
}

func compareEntries(a, b Entry) int {
	if n := cmp.Compare(a.Tag, b.Tag); n != 0 {
		return n
	}
	return cmp.Compare(a.Word, b.Word)
}

func validateParts(tag, word string) error {
	switch {
	case tag == "":
		return &errors.InvalidKeyError{Tag: tag, Word: word, Reason: "tag is empty"}
	case word == "":
		return &errors.InvalidKeyError{Tag: tag, Word: word, Reason: "word is empty"}
	case !ValidPart(tag):
		return &errors.InvalidKeyError{Tag: tag, Word: word, Reason: "tag must contain only letters, digits or underscores"}
	case !ValidPart(word):
		return &errors.InvalidKeyError{Tag: tag, Word: word, Reason: "word must contain only letters, digits or underscores"}
	}
	return nil
}
