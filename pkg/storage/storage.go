// Package storage defines the persisted row types shared by the sync engine
// and the store implementations.
package storage

import "time"

// Domain is a tenant dataset, identified by the URL of the site that owns it.
type Domain struct {
	ID        int64     `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Tag is a category label under a domain.
type Tag struct {
	ID       int64  `json:"id" yaml:"id"`
	DomainID int64  `json:"domain_id" yaml:"domain_id"`
	Domain   string `json:"domain" yaml:"domain"`
	Text     string `json:"text" yaml:"text"`
}

// Word is a leaf entry under a tag.
type Word struct {
	ID        int64     `json:"id" yaml:"id"`
	TagID     int64     `json:"tag_id" yaml:"tag_id"`
	Tag       string    `json:"tag" yaml:"tag"`
	Text      string    `json:"text" yaml:"text"`
	Details   string    `json:"details" yaml:"details"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// TagWithWords is a tag and its words as served by read endpoints.
type TagWithWords struct {
	ID    int64  `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Words []Word `json:"words" yaml:"words"`
}
