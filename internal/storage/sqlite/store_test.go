package sqlite_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/wordblox/internal/storage/sqlite"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/reconciler"
	"github.com/agentstation/wordblox/pkg/sync"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

var _ reconciler.Store = (*sqlite.Store)(nil)

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordblox.db")

	s1, err := sqlite.Open(path)
	require.NoError(t, err)
	_, err = s1.CreateDomain(context.Background(), "example.com")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := sqlite.Open(path)
	require.NoError(t, err)
	defer s2.Close()

	d, err := s2.GetDomain(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", d.URL)
	assert.NoError(t, s2.Ping(context.Background()))
}

func TestDomains(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.CreateDomain(ctx, "b.org")
	require.NoError(t, err)
	_, err = s.CreateDomain(ctx, "a.org")
	require.NoError(t, err)

	_, err = s.CreateDomain(ctx, "a.org")
	assert.True(t, errors.IsAlreadyExists(err))

	_, err = s.CreateDomain(ctx, "")
	assert.True(t, errors.IsValidationError(err))

	_, err = s.GetDomain(ctx, "missing.org")
	assert.True(t, errors.IsNotFound(err))

	domains, err := s.ListDomains(ctx)
	require.NoError(t, err)
	require.Len(t, domains, 2)
	assert.Equal(t, "a.org", domains[0].URL)
	assert.Equal(t, "b.org", domains[1].URL)
}

func TestTagAndWordLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.CreateDomain(ctx, "example.com")
	require.NoError(t, err)

	_, err = s.FindTagByDomainAndText(ctx, "example.com", "t1")
	assert.True(t, errors.IsNotFound(err))

	tag, err := s.CreateTag(ctx, "example.com", "t1")
	require.NoError(t, err)
	assert.Equal(t, "example.com", tag.Domain)

	found, err := s.FindTagByDomainAndText(ctx, "example.com", "t1")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, found.ID)

	word, err := s.CreateWord(ctx, tag, "w1", "d1")
	require.NoError(t, err)

	_, err = s.CreateWord(ctx, tag, "w1", "again")
	assert.True(t, errors.IsAlreadyExists(err))

	require.NoError(t, s.UpdateWordDetails(ctx, word, "d2"))
	assert.Equal(t, "d2", word.Details)

	got, err := s.FindWordByTagAndText(ctx, tag, "w1")
	require.NoError(t, err)
	assert.Equal(t, "d2", got.Details)
	assert.Equal(t, "t1", got.Tag)

	byID, err := s.GetWord(ctx, word.ID)
	require.NoError(t, err)
	assert.Equal(t, got, byID)

	require.NoError(t, s.DeleteWord(ctx, word))
	assert.True(t, errors.IsNotFound(s.DeleteWord(ctx, word)))
	_, err = s.FindWordByTagAndText(ctx, tag, "w1")
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateTagMissingDomain(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CreateTag(context.Background(), "nowhere.org", "t1")
	assert.True(t, errors.IsNotFound(err))
}

func TestTextLimits(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.CreateDomain(ctx, "example.com")
	require.NoError(t, err)

	_, err = s.CreateTag(ctx, "example.com", strings.Repeat("x", 76))
	assert.True(t, errors.IsValidationError(err))

	tag, err := s.CreateTag(ctx, "example.com", strings.Repeat("é", 75))
	require.NoError(t, err)
	_, err = s.CreateWord(ctx, tag, "", "d")
	assert.True(t, errors.IsValidationError(err))
}

func TestListingsAreDomainScoped(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for _, d := range []string{"a.org", "b.org"} {
		_, err := s.CreateDomain(ctx, d)
		require.NoError(t, err)
	}

	ta, err := s.CreateTag(ctx, "a.org", "shared")
	require.NoError(t, err)
	tb, err := s.CreateTag(ctx, "b.org", "shared")
	require.NoError(t, err)
	_, err = s.CreateTag(ctx, "a.org", "empty")
	require.NoError(t, err)

	_, err = s.CreateWord(ctx, ta, "w2", "a2")
	require.NoError(t, err)
	_, err = s.CreateWord(ctx, ta, "w1", "a1")
	require.NoError(t, err)
	_, err = s.CreateWord(ctx, tb, "w1", "b1")
	require.NoError(t, err)

	entries, err := s.ListWordsByDomain(ctx, "a.org")
	require.NoError(t, err)
	assert.Equal(t, []wordtag.Entry{
		{Tag: "shared", Word: "w1", Details: "a1"},
		{Tag: "shared", Word: "w2", Details: "a2"},
	}, entries)

	tags, err := s.ListTags(ctx, "a.org")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "empty", tags[0].Text)
	assert.Empty(t, tags[0].Words)
	assert.Len(t, tags[1].Words, 2)

	words, err := s.ListWords(ctx, "b.org")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "b1", words[0].Details)

	none, err := s.ListWordsByDomain(ctx, "c.org")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEngineAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.CreateDomain(ctx, "example.com")
	require.NoError(t, err)

	engine, err := reconciler.New(s)
	require.NoError(t, err)

	external, err := wordtag.FromEntries(
		wordtag.Entry{Tag: "t1", Word: "w1", Details: "d1"},
		wordtag.Entry{Tag: "t2", Word: "w2", Details: "d2"},
	)
	require.NoError(t, err)

	res, err := engine.Sync(ctx, external, wordtag.New(), "example.com", sync.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TagsCreated)
	assert.Equal(t, 2, res.WordsCreated)

	cachedEntries, err := s.ListWordsByDomain(ctx, "example.com")
	require.NoError(t, err)
	cached, err := wordtag.FromEntries(cachedEntries...)
	require.NoError(t, err)

	external, err = wordtag.FromEntries(wordtag.Entry{Tag: "t1", Word: "w1", Details: "d1b"})
	require.NoError(t, err)

	res, err = engine.Sync(ctx, external, cached, "example.com",
		sync.NewPolicy(sync.WithDeletionControl(sync.Delete)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.WordsUpdated)
	assert.Equal(t, 1, res.WordsDeleted)

	final, err := s.ListWordsByDomain(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, []wordtag.Entry{{Tag: "t1", Word: "w1", Details: "d1b"}}, final)
}
