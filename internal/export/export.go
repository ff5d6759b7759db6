// Package export writes YAML snapshots of a domain's tags and words.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/agentstation/wordblox/pkg/constants"
	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/storage"
)

// Store is the read surface needed to build a snapshot.
type Store interface {
	GetDomain(ctx context.Context, url string) (*storage.Domain, error)
	ListTags(ctx context.Context, domain string) ([]storage.TagWithWords, error)
}

// Snapshot is the exported form of one domain.
type Snapshot struct {
	Domain     string        `yaml:"domain"`
	ExportedAt time.Time     `yaml:"exported_at"`
	Tags       []TagSnapshot `yaml:"tags"`
}

// TagSnapshot is one tag and its words.
type TagSnapshot struct {
	Tag   string         `yaml:"tag"`
	Words []WordSnapshot `yaml:"words"`
}

// WordSnapshot is one word and its details.
type WordSnapshot struct {
	Word    string `yaml:"word"`
	Details string `yaml:"details"`
}

// Build reads domain from store into a Snapshot. An unknown domain yields an
// error matching errors.ErrNotFound.
func Build(ctx context.Context, store Store, domain string, now time.Time) (*Snapshot, error) {
	if _, err := store.GetDomain(ctx, domain); err != nil {
		return nil, err
	}
	tags, err := store.ListTags(ctx, domain)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Domain:     domain,
		ExportedAt: now.UTC(),
		Tags:       make([]TagSnapshot, 0, len(tags)),
	}
	for _, t := range tags {
		ts := TagSnapshot{Tag: t.Text, Words: make([]WordSnapshot, 0, len(t.Words))}
		for _, w := range t.Words {
			ts.Words = append(ts.Words, WordSnapshot{Word: w.Text, Details: w.Details})
		}
		snap.Tags = append(snap.Tags, ts)
	}
	return snap, nil
}

// Encode renders snap as YAML.
func Encode(snap *Snapshot) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(snap,
		yaml.Indent(2),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a YAML snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return &snap, nil
}

// Write exports domain to path. The file is replaced atomically so readers
// never observe a partial snapshot.
func Write(ctx context.Context, store Store, domain, path string) (*Snapshot, error) {
	snap, err := Build(ctx, store, domain, time.Now())
	if err != nil {
		return nil, err
	}
	data, err := Encode(snap)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return nil, errors.WrapIO("write", path, err)
	}
	return snap, nil
}
