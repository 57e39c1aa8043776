package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

// Store is the byte-level key/value contract backing the response cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Scope partitions cached responses by the public read that produced them.
type Scope string

const (
	ScopeContent    Scope = "content"
	ScopeNavigation Scope = "navigation"
	ScopeSearch     Scope = "search"
	ScopeSitemap    Scope = "sitemap"
)

// ContentScopes are the scopes affected by page or section writes.
var ContentScopes = []Scope{ScopeContent, ScopeSearch, ScopeSitemap}

// Invalidator drops cached responses for the given scopes. Admin services call it
// after every successful mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, scopes ...Scope) error
}

const defaultPrefix = "sectioncms"

// ResponseCache stores JSON encoded public responses. A nil *ResponseCache is a
// valid cache that never hits.
type ResponseCache struct {
	store  Store
	prefix string
	ttl    time.Duration
}

// NewResponseCache wraps store. An empty prefix defaults to "sectioncms".
func NewResponseCache(store Store, prefix string, ttl time.Duration) *ResponseCache {
	prefix = strings.Trim(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &ResponseCache{store: store, prefix: prefix, ttl: ttl}
}

// Key builds the storage key for a scope and its discriminating parts. Parts are
// query-escaped, so distinct parts never share a key.
func (c *ResponseCache) Key(scope Scope, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, c.prefix, string(scope))
	for _, part := range parts {
		segments = append(segments, url.QueryEscape(part))
	}
	return strings.Join(segments, ":")
}

// Load decodes a cached value into target, reporting whether it was present.
func (c *ResponseCache) Load(ctx context.Context, scope Scope, target any, parts ...string) (bool, error) {
	if c == nil || c.store == nil {
		return false, nil
	}
	raw, ok, err := c.store.Get(ctx, c.Key(scope, parts...))
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, err
	}
	return true, nil
}

// Save encodes value and stores it under the scope key.
func (c *ResponseCache) Save(ctx context.Context, scope Scope, value any, parts ...string) error {
	if c == nil || c.store == nil {
		return nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.Key(scope, parts...), encoded, c.ttl)
}

// Invalidate removes every cached entry for the supplied scopes.
func (c *ResponseCache) Invalidate(ctx context.Context, scopes ...Scope) error {
	if c == nil || c.store == nil {
		return nil
	}
	for _, scope := range scopes {
		if err := c.store.DeletePrefix(ctx, c.Key(scope)); err != nil {
			return err
		}
	}
	return nil
}

// NoOp returns an invalidator that does nothing.
func NoOp() Invalidator {
	return noopInvalidator{}
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, ...Scope) error { return nil }
