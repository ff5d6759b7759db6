package wordtag

import (
	"regexp"
	"strings"
)

// Separator joins the tag and word parts of a composite key.
const Separator = ":"

// DefaultDetails is stored when supplied details fail validation.
const DefaultDetails = ""

var (
	partPattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
	keyPattern  = regexp.MustCompile(`^[\p{L}\p{N}_]+` + Separator + `[\p{L}\p{N}_]+$`)
)

// ValidPart reports whether s can be used as the tag or word half of a key.
func ValidPart(s string) bool {
	return partPattern.MatchString(s)
}

// ValidKey reports whether key is a well-formed composite key.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Combine builds the composite key for tag and word.
// It reports false when either part is empty.
func Combine(tag, word string) (string, bool) {
	if tag == "" || word == "" {
		return "", false
	}
	return tag + Separator + word, true
}

// Separate splits key on the first separator.
// It reports false when key contains no separator.
func Separate(key string) (tag, word string, ok bool) {
	return strings.Cut(key, Separator)
}
