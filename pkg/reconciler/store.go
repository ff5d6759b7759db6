package reconciler

import (
	"context"

	"github.com/agentstation/wordblox/pkg/storage"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// Store is the persistent store the engine mutates.
//
// Find methods return an error matching errors.ErrNotFound on a miss.
// CreateTag returns an error matching errors.ErrNotFound when the domain row
// does not exist.
type Store interface {
	FindTagByDomainAndText(ctx context.Context, domain, text string) (*storage.Tag, error)
	FindWordByTagAndText(ctx context.Context, tag *storage.Tag, text string) (*storage.Word, error)
	CreateTag(ctx context.Context, domain, text string) (*storage.Tag, error)
	CreateWord(ctx context.Context, tag *storage.Tag, text, details string) (*storage.Word, error)
	UpdateWordDetails(ctx context.Context, word *storage.Word, details string) error
	DeleteWord(ctx context.Context, word *storage.Word) error
	ListWordsByDomain(ctx context.Context, domain string) ([]wordtag.Entry, error)
}

// Observer receives the word mutations an engine applies.
type Observer interface {
	WordCreated(ctx context.Context, domain string, entry wordtag.Entry)
	WordUpdated(ctx context.Context, domain string, entry wordtag.Entry, oldDetails string)
	WordDeleted(ctx context.Context, domain string, entry wordtag.Entry)
}
