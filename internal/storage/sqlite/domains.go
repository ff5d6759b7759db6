package sqlite

import (
	"context"

	"github.com/agentstation/wordblox/pkg/errors"
	"github.com/agentstation/wordblox/pkg/storage"
)

// CreateDomain registers a domain. An existing URL yields an error matching
// errors.ErrAlreadyExists.
func (s *Store) CreateDomain(ctx context.Context, url string) (*storage.Domain, error) {
	if url == "" {
		return nil, errors.NewDomainError(url, "url is required")
	}
	created := now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO domains (url, created_at) VALUES (?, ?)", url, created)
	if err != nil {
		return nil, translate("create", "domain", url, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translate("create", "domain", url, err)
	}
	return &storage.Domain{ID: id, URL: url, CreatedAt: fromMillis(created)}, nil
}

// GetDomain returns the domain with url.
func (s *Store) GetDomain(ctx context.Context, url string) (*storage.Domain, error) {
	var (
		d       storage.Domain
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, url, created_at FROM domains WHERE url = ?", url).
		Scan(&d.ID, &d.URL, &created)
	if err != nil {
		return nil, translate("find", "domain", url, err)
	}
	d.CreatedAt = fromMillis(created)
	return &d, nil
}

// ListDomains returns every domain ordered by URL.
func (s *Store) ListDomains(ctx context.Context) ([]storage.Domain, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, url, created_at FROM domains ORDER BY url")
	if err != nil {
		return nil, translate("list", "domain", "", err)
	}
	defer rows.Close()

	domains := []storage.Domain{}
	for rows.Next() {
		var (
			d       storage.Domain
			created int64
		)
		if err := rows.Scan(&d.ID, &d.URL, &created); err != nil {
			return nil, translate("list", "domain", "", err)
		}
		d.CreatedAt = fromMillis(created)
		domains = append(domains, d)
	}
	return domains, translate("list", "domain", "", rows.Err())
}
