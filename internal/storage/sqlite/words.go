package sqlite

import (
	"context"
	"strconv"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/storage"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

const wordColumns = "w.id, w.tag_id, t.text, w.text, w.details, w.updated_at"

// FindTagByDomainAndText returns the tag text under domain.
func (s *Store) FindTagByDomainAndText(ctx context.Context, domain, text string) (*storage.Tag, error) {
	var t storage.Tag
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.domain_id, d.url, t.text
		FROM tags t JOIN domains d ON d.id = t.domain_id
		WHERE d.url = ? AND t.text = ?`, domain, text).
		Scan(&t.ID, &t.DomainID, &t.Domain, &t.Text)
	if err != nil {
		return nil, translate("find", "tag", domain+"/"+text, err)
	}
	return &t, nil
}

// FindWordByTagAndText returns the word text under tag.
func (s *Store) FindWordByTagAndText(ctx context.Context, tag *storage.Tag, text string) (*storage.Word, error) {
	w, err := scanWord(s.db.QueryRowContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w JOIN tags t ON t.id = w.tag_id
		WHERE w.tag_id = ? AND w.text = ?`, tag.ID, text))
	if err != nil {
		return nil, translate("find", "word", tag.Text+":"+text, err)
	}
	return w, nil
}

// CreateTag creates tag text under domain. A missing domain row yields an
// error matching errors.ErrNotFound.
func (s *Store) CreateTag(ctx context.Context, domain, text string) (*storage.Tag, error) {
	if err := validateText("tag", text, constants.MaxTagLength); err != nil {
		return nil, err
	}
	d, err := s.GetDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO tags (domain_id, text) VALUES (?, ?)", d.ID, text)
	if err != nil {
		return nil, translate("create", "tag", domain+"/"+text, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("create", "tag", domain+"/"+text, err)
	}
	return &storage.Tag{ID: id, DomainID: d.ID, Domain: d.URL, Text: text}, nil
}

// CreateWord creates word text under tag.
func (s *Store) CreateWord(ctx context.Context, tag *storage.Tag, text, details string) (*storage.Word, error) {
	if err := validateText("word", text, constants.MaxWordLength); err != nil {
		return nil, err
	}
	updated := now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO words (tag_id, text, details, updated_at) VALUES (?, ?, ?, ?)",
		tag.ID, text, details, updated)
	if err != nil {
		return nil, translate("create", "word", tag.Text+":"+text, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("create", "word", tag.Text+":"+text, err)
	}
	return &storage.Word{
		ID:        id,
		TagID:     tag.ID,
		Tag:       tag.Text,
		Text:      text,
		Details:   details,
		UpdatedAt: fromMillis(updated),
	}, nil
}

// UpdateWordDetails replaces the details of word and updates it in place.
func (s *Store) UpdateWordDetails(ctx context.Context, word *storage.Word, details string) error {
	updated := now()
	res, err := s.db.ExecContext(ctx,
		"UPDATE words SET details = ?, updated_at = ? WHERE id = ?", details, updated, word.ID)
	if err != nil {
		return translate("update", "word", strconv.FormatInt(word.ID, 10), err)
	}
	if err := requireRow(res, "word", word.ID); err != nil {
		return err
	}
	word.Details = details
	word.UpdatedAt = fromMillis(updated)
	return nil
}

// DeleteWord removes word.
func (s *Store) DeleteWord(ctx context.Context, word *storage.Word) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM words WHERE id = ?", word.ID)
	if err != nil {
		return translate("delete", "word", strconv.FormatInt(word.ID, 10), err)
	}
	return requireRow(res, "word", word.ID)
}

// ListWordsByDomain returns every tag/word/details triple of domain.
func (s *Store) ListWordsByDomain(ctx context.Context, domain string) ([]wordtag.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.text, w.text, w.details
		FROM words w
		JOIN tags t ON t.id = w.tag_id
		JOIN domains d ON d.id = t.domain_id
		WHERE d.url = ?
		ORDER BY t.text, w.text`, domain)
	if err != nil {
		return nil, translate("list", "word", domain, err)
	}
	defer rows.Close()

	entries := []wordtag.Entry{}
	for rows.Next() {
		var e wordtag.Entry
		if err := rows.Scan(&e.Tag, &e.Word, &e.Details); err != nil {
			return nil, translate("list", "word", domain, err)
		}
		entries = append(entries, e)
	}
	return entries, translate("list", "word", domain, rows.Err())
}

// ListWords returns the word rows of domain ordered by tag and text.
func (s *Store) ListWords(ctx context.Context, domain string) ([]storage.Word, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w
		JOIN tags t ON t.id = w.tag_id
		JOIN domains d ON d.id = t.domain_id
		WHERE d.url = ?
		ORDER BY t.text, w.text`, domain)
	if err != nil {
		return nil, translate("list", "word", domain, err)
	}
	defer rows.Close()

	words := []storage.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, translate("list", "word", domain, err)
		}
		words = append(words, *w)
	}
	return words, translate("list", "word", domain, rows.Err())
}

// ListTags returns the tags of domain with their words nested.
func (s *Store) ListTags(ctx context.Context, domain string) ([]storage.TagWithWords, error) {
	words, err := s.ListWords(ctx, domain)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.text
		FROM tags t JOIN domains d ON d.id = t.domain_id
		WHERE d.url = ?
		ORDER BY t.text`, domain)
	if err != nil {
		return nil, translate("list", "tag", domain, err)
	}
	defer rows.Close()

	byTag := make(map[int64][]storage.Word)
	for _, w := range words {
		byTag[w.TagID] = append(byTag[w.TagID], w)
	}

	tags := []storage.TagWithWords{}
	for rows.Next() {
		var t storage.TagWithWords
		if err := rows.Scan(&t.ID, &t.Text); err != nil {
			return nil, translate("list", "tag", domain, err)
		}
		t.Words = byTag[t.ID]
		if t.Words == nil {
			t.Words = []storage.Word{}
		}
		tags = append(tags, t)
	}
	return tags, translate("list", "tag", domain, rows.Err())
}

// GetWord returns the word with id.
func (s *Store) GetWord(ctx context.Context, id int64) (*storage.Word, error) {
	w, err := scanWord(s.db.QueryRowContext(ctx, `
		SELECT `+wordColumns+`
		FROM words w JOIN tags t ON t.id = w.tag_id
		WHERE w.id = ?`, id))
	if err != nil {
		return nil, translate("find", "word", strconv.FormatInt(id, 10), err)
	}
	return w, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWord(row scanner) (*storage.Word, error) {
	var (
		w       storage.Word
		updated int64
	)
	if err := row.Scan(&w.ID, &w.TagID, &w.Tag, &w.Text, &w.Details, &updated); err != nil {
		return nil, err
	}
	w.UpdatedAt = fromMillis(updated)
	return &w, nil
}

func requireRow(res interface{ RowsAffected() (int64, error) }, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewPersistenceError("update", resource, strconv.FormatInt(id, 10), err)
	}
	if n == 0 {
		return errors.NewNotFoundError(resource, strconv.FormatInt(id, 10))
	}
	return nil
}
