package reconciler_test

import (
	"context"
	"fmt"
	"slices"
	gosync "sync"

	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/storage"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// call records one store invocation.
type call struct {
	Op  string
	Arg string
}

// memoryStore is an in-memory Store that records every call.
type memoryStore struct {
	mu      gosync.Mutex
	domains map[string]int64
	tags    map[int64]*storage.Tag
	words   map[int64]*storage.Word
	nextID  int64
	calls   []call

	// failOn makes the named op fail with failErr.
	failOn  string
	failErr error
}

func newMemoryStore(domains ...string) *memoryStore {
	s := &memoryStore{
		domains: make(map[string]int64),
		tags:    make(map[int64]*storage.Tag),
		words:   make(map[int64]*storage.Word),
	}
	for _, d := range domains {
		s.nextID++
		s.domains[d] = s.nextID
	}
	return s
}

// seed inserts rows directly without recording calls.
func (s *memoryStore) seed(domain string, entries ...wordtag.Entry) {
	for _, e := range entries {
		tag := s.findTag(domain, e.Tag)
		if tag == nil {
			s.nextID++
			tag = &storage.Tag{ID: s.nextID, DomainID: s.domains[domain], Domain: domain, Text: e.Tag}
			s.tags[tag.ID] = tag
		}
		s.nextID++
		s.words[s.nextID] = &storage.Word{ID: s.nextID, TagID: tag.ID, Tag: tag.Text, Text: e.Word, Details: e.Details}
	}
}

func (s *memoryStore) record(op, arg string) error {
	s.calls = append(s.calls, call{Op: op, Arg: arg})
	if s.failOn == op {
		return s.failErr
	}
	return nil
}

func (s *memoryStore) findTag(domain, text string) *storage.Tag {
	for _, t := range s.tags {
		if t.Domain == domain && t.Text == text {
			return t
		}
	}
	return nil
}

// ops returns the recorded calls whose op is one of names.
func (s *memoryStore) ops(names ...string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if slices.Contains(names, c.Op) {
			out = append(out, c)
		}
	}
	return out
}

func (s *memoryStore) FindTagByDomainAndText(_ context.Context, domain, text string) (*storage.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("find_tag", domain+"/"+text); err != nil {
		return nil, err
	}
	if t := s.findTag(domain, text); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, errors.NewNotFoundError("tag", text)
}

func (s *memoryStore) FindWordByTagAndText(_ context.Context, tag *storage.Tag, text string) (*storage.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("find_word", tag.Text+":"+text); err != nil {
		return nil, err
	}
	for _, w := range s.words {
		if w.TagID == tag.ID && w.Text == text {
			cp := *w
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("word", text)
}

func (s *memoryStore) CreateTag(_ context.Context, domain, text string) (*storage.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("create_tag", domain+"/"+text); err != nil {
		return nil, err
	}
	domainID, ok := s.domains[domain]
	if !ok {
		return nil, errors.NewNotFoundError("domain", domain)
	}
	s.nextID++
	t := &storage.Tag{ID: s.nextID, DomainID: domainID, Domain: domain, Text: text}
	s.tags[t.ID] = t
	cp := *t
	return &cp, nil
}

func (s *memoryStore) CreateWord(_ context.Context, tag *storage.Tag, text, details string) (*storage.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("create_word", tag.Text+":"+text); err != nil {
		return nil, err
	}
	s.nextID++
	w := &storage.Word{ID: s.nextID, TagID: tag.ID, Tag: tag.Text, Text: text, Details: details}
	s.words[w.ID] = w
	cp := *w
	return &cp, nil
}

func (s *memoryStore) UpdateWordDetails(_ context.Context, word *storage.Word, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("update_word", word.Tag+":"+word.Text); err != nil {
		return err
	}
	w, ok := s.words[word.ID]
	if !ok {
		return errors.NewNotFoundError("word", fmt.Sprint(word.ID))
	}
	w.Details = details
	return nil
}

func (s *memoryStore) DeleteWord(_ context.Context, word *storage.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("delete_word", word.Tag+":"+word.Text); err != nil {
		return err
	}
	delete(s.words, word.ID)
	return nil
}

func (s *memoryStore) ListWordsByDomain(_ context.Context, domain string) ([]wordtag.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("list_words", domain); err != nil {
		return nil, err
	}
	var out []wordtag.Entry
	for _, w := range s.words {
		t := s.tags[w.TagID]
		if t.Domain == domain {
			out = append(out, wordtag.Entry{Tag: t.Text, Word: w.Text, Details: w.Details})
		}
	}
	return out, nil
}

// snapshot returns the domain's rows as a collection.
func (s *memoryStore) snapshot(domain string) *wordtag.Collection {
	entries, _ := s.ListWordsByDomain(context.Background(), domain)
	c, _ := wordtag.FromEntries(entries...)
	return c
}

// recordingObserver collects observer events.
type recordingObserver struct {
	created, updated, deleted []string
}

func (o *recordingObserver) WordCreated(_ context.Context, _ string, e wordtag.Entry) {
	o.created = append(o.created, e.Key())
}

func (o *recordingObserver) WordUpdated(_ context.Context, _ string, e wordtag.Entry, _ string) {
	o.updated = append(o.updated, e.Key())
}

func (o *recordingObserver) WordDeleted(_ context.Context, _ string, e wordtag.Entry) {
	o.deleted = append(o.deleted, e.Key())
}
