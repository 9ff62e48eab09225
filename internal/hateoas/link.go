package hateoas

import (
	"net/http"
	"strings"
)

// IncludeHeader is the request header that opts a response into link decoration.
const IncludeHeader = "IncludeHATEOAS"

type Link struct {
	Link        string `json:"link"`
	Description string `json:"description"`
	Method      string `json:"method"`
}

// Resource is embedded by DTOs that can carry links.
type Resource struct {
	Links []Link `json:"links,omitempty"`
}

func (r *Resource) AddLink(l Link) {
	r.Links = append(r.Links, l)
}

// Identifiable is a linkable DTO that knows its own identifier.
type Identifiable interface {
	ResourceID() string
	AddLink(Link)
}

// Collection wraps an ordered list of items with collection-level links.
type Collection[T any] struct {
	Values []T    `json:"values"`
	Links  []Link `json:"links"`
}

// Requested reports whether the caller opted into links.
func Requested(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get(IncludeHeader)), "Y")
}

// BaseURL derives scheme://host for absolute links, honouring proxy headers.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	return scheme + "://" + host
}
