package wordblox

import (
	"context"

	"github.com/agentstation/wordblox/internal/transport"
	"github.com/agentstation/wordblox/pkg/wordtag"
)

// Fetcher is a login-bound session against the external service.
// A pull creates one Fetcher, uses it once and closes it.
type Fetcher interface {
	// Auth logs in with the caller's credentials.
	Auth(ctx context.Context, username, password string) error

	// Fetch returns the domain's records. Records that could not be decoded
	// are reported in skipped without failing the fetch.
	Fetch(ctx context.Context, domain string) (entries []wordtag.Entry, skipped []error, err error)

	// Close releases the session.
	Close() error
}

// FetcherFactory creates the Fetcher for one pull.
type FetcherFactory func() (Fetcher, error)

// sessionFetcher adapts a transport.Client to Fetcher.
type sessionFetcher struct {
	*transport.Client
}

// newSessionFetcher returns a factory producing transport-backed fetchers.
func newSessionFetcher(cfg transport.Config) FetcherFactory {
	return func() (Fetcher, error) {
		client, err := transport.New(cfg)
		if err != nil {
			return nil, err
		}
		return sessionFetcher{client}, nil
	}
}

func (f sessionFetcher) Fetch(ctx context.Context, domain string) ([]wordtag.Entry, []error, error) {
	data, err := f.GetData(ctx, domain)
	if err != nil {
		return nil, nil, err
	}
	records, skipped := data.Records()
	entries := make([]wordtag.Entry, len(records))
	for i, r := range records {
		entries[i] = wordtag.Entry{Tag: r.Tag, Word: r.Word, Details: r.Details}
	}
	return entries, skipped, nil
}
