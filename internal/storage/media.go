package storage

import (
	"net/http"
	"strings"
)

// MediaResolver turns stored image references into absolute URLs.
type MediaResolver struct {
	baseURL     string
	localPrefix string
}

// NewMediaResolver returns a resolver. With an empty baseURL, relative keys
// are served from localPrefix on the requesting host.
func NewMediaResolver(baseURL, localPrefix string) *MediaResolver {
	if localPrefix == "" {
		localPrefix = "/media"
	}
	return &MediaResolver{
		baseURL:     strings.TrimRight(baseURL, "/"),
		localPrefix: "/" + strings.Trim(localPrefix, "/"),
	}
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve returns nil for an empty reference.
func (m *MediaResolver) Resolve(ref string, r *http.Request) *string {
	if ref == "" {
		return nil
	}
	if isAbsoluteURL(ref) {
		return &ref
	}

	key := strings.TrimLeft(ref, "/")
	if m.baseURL != "" {
		u := m.baseURL + "/" + key
		return &u
	}

	path := m.localPrefix + "/" + key
	if r == nil {
		return &path
	}
	u := RequestOrigin(r) + path
	return &u
}

// RequestOrigin returns scheme://host for r, honouring X-Forwarded-Proto.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + r.Host
}
