package sync

import (
	"fmt"
	"strings"
)

// Result counts the mutations one sync applied to the local store.
type Result struct {
	Domain string `json:"domain" yaml:"domain"`
	Policy Policy `json:"policy" yaml:"policy"`

	TagsCreated  int `json:"tags_created" yaml:"tags_created"`
	WordsCreated int `json:"words_created" yaml:"words_created"`
	WordsUpdated int `json:"words_updated" yaml:"words_updated"`
	WordsDeleted int `json:"words_deleted" yaml:"words_deleted"`
	Unchanged    int `json:"unchanged" yaml:"unchanged"`
}

// HasChanges returns true if the sync mutated the store.
func (r *Result) HasChanges() bool {
	return r.TotalChanges() > 0
}

// TotalChanges returns the number of applied mutations.
func (r *Result) TotalChanges() int {
	return r.TagsCreated + r.WordsCreated + r.WordsUpdated + r.WordsDeleted
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		return fmt.Sprintf("%s: No changes (%d unchanged)", r.Domain, r.Unchanged)
	}

	var parts []string
	if r.TagsCreated > 0 {
		parts = append(parts, fmt.Sprintf("%d tags created", r.TagsCreated))
	}
	parts = append(parts,
		fmt.Sprintf("%d words created", r.WordsCreated),
		fmt.Sprintf("%d updated", r.WordsUpdated),
		fmt.Sprintf("%d deleted", r.WordsDeleted),
	)
	return fmt.Sprintf("%s: %s", r.Domain, strings.Join(parts, ", "))
}
