package resolver

import (
	"context"
	"errors"
	"strings"

	"shotscraper/internal/config"
)

type Resolved struct {
	URL     string
	Headers map[string]string
}

type Resolver interface {
	CanHandle(uri string) bool
	Resolve(ctx context.Context, uri string, cfg *config.Config) (*Resolved, error)
}

// Resolve expands a script reference. "gh:" references go to GitHub; plain
// http(s) URLs pass through untouched.
func Resolve(ctx context.Context, uri string, cfg *config.Config) (*Resolved, error) {
	uri = strings.TrimSpace(uri)
	gh := &GitHub{}
	if gh.CanHandle(uri) {
		return gh.Resolve(ctx, uri, cfg)
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return &Resolved{URL: uri, Headers: map[string]string{}}, nil
	}
	return nil, errors.New("no resolver for uri scheme")
}
