package hateoas

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"libraryapi/commons/handler"
	"libraryapi/internal/auth"
	"libraryapi/internal/logger"
)

// ResourceLinks describes where a resource lives and which policy unlocks its write links.
// ItemRoute uses the ":id" placeholder, as registered with the router.
type ResourceLinks struct {
	Name            string
	ItemRoute       string
	CollectionRoute string
	Policy          string
}

func (l ResourceLinks) itemPath(id string) string {
	return strings.Replace(l.ItemRoute, ":id", url.PathEscape(id), 1)
}

type Generator struct {
	authz  auth.Authorizer
	logger logger.Logger
}

func NewGenerator(authz auth.Authorizer, log logger.Logger) *Generator {
	return &Generator{
		authz:  authz,
		logger: log.With(logger.String("component", "hateoas_generator")),
	}
}

// Link builds an absolute link for path on the host that served r.
func (g *Generator) Link(r *http.Request, path, description, method string) Link {
	return Link{
		Link:        BaseURL(r) + path,
		Description: description,
		Method:      method,
	}
}

// Allowed evaluates policy for the caller of r. Callers evaluate once per response.
func (g *Generator) Allowed(r *http.Request, policy string) bool {
	if policy == "" {
		return false
	}
	return g.authz.Evaluate(auth.FromContext(r.Context()), policy)
}

// DecorateItem appends self and, when allowed, the write links to item in display order.
func (g *Generator) DecorateItem(r *http.Request, item Identifiable, links ResourceLinks, allowed bool) {
	path := links.itemPath(item.ResourceID())

	item.AddLink(g.Link(r, path, "self", http.MethodGet))
	if !allowed {
		return
	}
	item.AddLink(g.Link(r, path, links.Name+"-update", http.MethodPut))
	item.AddLink(g.Link(r, path, links.Name+"-patch", http.MethodPatch))
	item.AddLink(g.Link(r, path, links.Name+"-delete", http.MethodDelete))
}

func (g *Generator) CollectionLinks(r *http.Request, links ResourceLinks, allowed bool) []Link {
	out := []Link{g.Link(r, links.CollectionRoute, "self", http.MethodGet)}
	if allowed {
		out = append(out, g.Link(r, links.CollectionRoute, links.Name+"-create", http.MethodPost))
	}
	return out
}

func shouldDecorate(r *http.Request, status int, data any) bool {
	return data != nil && status >= 200 && status < 300 && Requested(r)
}

// ItemDecorator decorates a single T payload. Any other payload type is a wiring
// bug and panics.
func ItemDecorator[T any, PT interface {
	*T
	Identifiable
}](g *Generator, links ResourceLinks) handler.ResponseDecorator {
	return func(r *http.Request, status int, data any) any {
		if !shouldDecorate(r, status, data) {
			return data
		}

		item, ok := data.(T)
		if !ok {
			panic(fmt.Sprintf("hateoas: %s item decorator got %T, want %T", links.Name, data, item))
		}

		g.DecorateItem(r, PT(&item), links, g.Allowed(r, links.Policy))
		return item
	}
}

// CollectionDecorator wraps a []T payload into a Collection, decorating every item.
// Any other payload type panics.
func CollectionDecorator[T any, PT interface {
	*T
	Identifiable
}](g *Generator, links ResourceLinks) handler.ResponseDecorator {
	return func(r *http.Request, status int, data any) any {
		if !shouldDecorate(r, status, data) {
			return data
		}

		items, ok := data.([]T)
		if !ok {
			panic(fmt.Sprintf("hateoas: %s collection decorator got %T, want %T", links.Name, data, items))
		}

		allowed := g.Allowed(r, links.Policy)

		values := make([]T, len(items))
		copy(values, items)
		for i := range values {
			g.DecorateItem(r, PT(&values[i]), links, allowed)
		}

		return Collection[T]{
			Values: values,
			Links:  g.CollectionLinks(r, links, allowed),
		}
	}
}
