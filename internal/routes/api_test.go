package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"libraryapi/commons/response"
	commonRoutes "libraryapi/commons/routes"
	"libraryapi/internal/auth"
	"libraryapi/internal/cache/invalidation"
	"libraryapi/internal/cache/memory"
	"libraryapi/internal/cache/output"
	"libraryapi/internal/domain"
	"libraryapi/internal/handler"
	"libraryapi/internal/hateoas"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	"libraryapi/internal/repository/sqldb"
	"libraryapi/internal/service"
	"libraryapi/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

// memComments keeps comments in memory with the same visibility rules as the
// DynamoDB store.
type memComments struct {
	mu   sync.Mutex
	byID map[string]*domain.Comment
}

func (m *memComments) ListByBook(ctx context.Context, bookID int64) ([]*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Comment{}
	for _, c := range m.byID {
		if c.BookID == bookID && !c.IsDeleted {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt > out[j].PublishedAt })
	return out, nil
}

func (m *memComments) GetByID(ctx context.Context, bookID int64, id string) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.BookID != bookID || c.IsDeleted {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memComments) Create(ctx context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.CommentID] = c
	return nil
}

func (m *memComments) UpdateBody(ctx context.Context, bookID int64, id, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].Body = body
	return nil
}

func (m *memComments) SoftDelete(ctx context.Context, bookID int64, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].IsDeleted = true
	return nil
}

type api struct {
	t      *testing.T
	router http.Handler
	tokens *auth.TokenIssuer
}

func newAPI(t *testing.T) *api {
	t.Helper()
	validation.RegisterGin()
	log := logger.NewNop()
	ctx := context.Background()

	db, err := sqldb.Open(ctx, sqldb.SQLite, "file::memory:?_pragma=foreign_keys(1)", sqldb.Options{}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	store := memory.NewMemoryCache(memory.Config{TTL: time.Minute}, log)
	coord := invalidation.NewCoordinator(store, nil, log)

	tokens := auth.NewTokenIssuer(testKey, "library-api", time.Hour)
	authz, err := auth.NewPolicyEvaluator(map[string]string{
		auth.PolicyAdmin: "authenticated && claims.esadmin == 'true'",
	}, log)
	require.NoError(t, err)
	generator := hateoas.NewGenerator(authz, log)

	authorRepo := sqldb.NewAuthorRepository(db, log)
	bookRepo := sqldb.NewBookRepository(db, log)
	userRepo := sqldb.NewUserRepository(db, log)
	comments := &memComments{byID: map[string]*domain.Comment{}}

	authors := service.NewAuthorService(authorRepo, query.NewFilterBuilder(log), coord, log)
	books := service.NewBookService(bookRepo, authorRepo, coord, log)
	commentSvc := service.NewCommentService(comments, bookRepo, coord, log)
	users := service.NewUserService(userRepo, tokens, log)

	deps := commonRoutes.RouteDependencies{
		Logger:      log,
		Authorizer:  authz,
		Tokens:      tokens,
		OutputCache: &output.Policy{Store: store, TTL: time.Minute, Logger: log},
	}
	router := commonRoutes.NewRouter(commonRoutes.RouterConfig{ServiceName: "library-api", Version: "v1"}, deps)

	InitHealthRoutes(router, handler.NewHealthHandler(log, "library-api", map[string]handler.HealthCheck{"database": db.Ping}), deps)
	InitRootRoutes(router, handler.NewRootHandler(log, generator), deps)
	authorHandler := handler.NewAuthorHandler(log, authors)
	InitAuthorRoutes(router, authorHandler, generator, deps)
	InitAuthorV2Routes(router, authorHandler, deps)
	InitAuthorCollectionRoutes(router, handler.NewAuthorCollectionHandler(log, authors), deps)
	InitBookRoutes(router, handler.NewBookHandler(log, books), deps)
	InitCommentRoutes(router, handler.NewCommentHandler(log, commentSvc), deps)
	InitUserRoutes(router, handler.NewUserHandler(log, users), deps)

	return &api{t: t, router: router, tokens: tokens}
}

func (a *api) token(userID string, admin bool) string {
	claims := map[string]string{}
	if admin {
		claims[auth.AdminClaim] = "true"
	}
	tok, err := a.tokens.Issue(userID, "user"+userID+"@example.com", claims)
	require.NoError(a.t, err)
	return tok.Token
}

func (a *api) do(method, target, token, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// data decodes the envelope's data field into out and returns the envelope.
func data(t *testing.T, w *httptest.ResponseRecorder, out any) response.StandardResponse {
	t.Helper()
	var env struct {
		response.StandardResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env.StandardResponse
}

type authorOut struct {
	ID       int64          `json:"id"`
	FullName string         `json:"fullName"`
	Links    []hateoas.Link `json:"links"`
	Books    []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"books"`
}

func (a *api) createAuthor(admin, body string) authorOut {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/authors", admin, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out authorOut
	data(a.t, w, &out)
	return out
}

func TestAuthorsLifecycle(t *testing.T) {
	a := newAPI(t)
	admin := a.token("1", true)

	t.Run("Writes require the admin policy", func(t *testing.T) {
		body := `{"names":"Isabel","lastNames":"Allende"}`
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/v1/authors", "", body).Code)
		assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/v1/authors", a.token("2", false), body).Code)
	})

	t.Run("Validation errors", func(t *testing.T) {
		w := a.do(http.MethodPost, "/api/v1/authors", admin, `{"names":"isabel","lastNames":"Allende"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "The first letter of names must be upper case", data(t, w, nil).Message)
	})

	created := a.createAuthor(admin, `{"names":"Isabel","lastNames":"Allende","identification":"A-1"}`)
	assert.Equal(t, "Isabel Allende", created.FullName)

	t.Run("List is cached until a write evicts it", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v1/authors?page=1&recordsPerPage=10", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(query.TotalRecordsHeader))
		assert.Equal(t, "obtain-authors", w.Header().Get("actions"))
		assert.Equal(t, "MISS", w.Header().Get(output.StatusHeader))

		w = a.do(http.MethodGet, "/api/v1/authors?recordsPerPage=10&page=1", "", "")
		assert.Equal(t, "HIT", w.Header().Get(output.StatusHeader))

		a.createAuthor(admin, `{"names":"Julio","lastNames":"Cortázar"}`)

		w = a.do(http.MethodGet, "/api/v1/authors?page=1&recordsPerPage=10", "", "")
		assert.Equal(t, "MISS", w.Header().Get(output.StatusHeader))
		assert.Equal(t, "2", w.Header().Get(query.TotalRecordsHeader))

		var authors []authorOut
		data(t, w, &authors)
		require.Len(t, authors, 2)
		assert.Equal(t, "Isabel Allende", authors[0].FullName)
	})

	t.Run("HATEOAS opt-in", func(t *testing.T) {
		var anon authorOut
		data(t, a.do(http.MethodGet, "/api/v1/authors/1", "", "", hateoas.IncludeHeader, "Y"), &anon)
		require.Len(t, anon.Links, 1)
		assert.Equal(t, "http://example.com/api/v1/authors/1", anon.Links[0].Link)

		var adminView authorOut
		data(t, a.do(http.MethodGet, "/api/v1/authors/1", admin, "", hateoas.IncludeHeader, "y"), &adminView)
		assert.Len(t, adminView.Links, 4)

		var collection hateoas.Collection[authorOut]
		data(t, a.do(http.MethodGet, "/api/v1/authors", admin, "", hateoas.IncludeHeader, "Y"), &collection)
		assert.Len(t, collection.Values, 2)
		assert.Equal(t, "author-create", collection.Links[1].Description)
	})

	t.Run("Patch", func(t *testing.T) {
		w := a.do(http.MethodPatch, "/api/v1/authors/1", admin, `[{"op":"replace","path":"/lastNames","value":"Allende Llona"}]`)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = a.do(http.MethodPatch, "/api/v1/authors/1", admin, `[{"op":"replace","path":"/names","value":"isabel"}]`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var got authorOut
		data(t, a.do(http.MethodGet, "/api/v1/authors/1", "", ""), &got)
		assert.Equal(t, "Isabel Allende Llona", got.FullName)
	})

	t.Run("Missing author", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v1/authors/99", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Author not found", data(t, w, nil).Message)

		assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/v1/authors/99", admin, "").Code)
		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/authors/abc", "", "").Code)
	})

	t.Run("Filter", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v1/authors/filter?names=JUL&orderField=bogus", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(query.TotalRecordsHeader))

		var found []authorOut
		data(t, w, &found)
		require.Len(t, found, 1)
		assert.Equal(t, "Julio Cortázar", found[0].FullName)

		for _, text := range []string{"Cortázar", "CORTÁZAR"} {
			w = a.do(http.MethodGet, "/api/v1/authors/filter?lastNames="+url.QueryEscape(text), "", "")
			assert.Equal(t, "1", w.Header().Get(query.TotalRecordsHeader), text)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/authors/2", admin, "").Code)
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/authors/2", "", "").Code)
	})
}

func TestAuthorsV2(t *testing.T) {
	a := newAPI(t)
	admin := a.token("1", true)

	body := `{"names":"Rosario","lastNames":"Castellanos"}`
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/v2/authors", "", body).Code)

	w := a.do(http.MethodPost, "/api/v2/authors", admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "http://example.com/api/v2/authors/1", w.Header().Get("Location"))

	t.Run("Reads carry no links", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v2/authors", admin, "", hateoas.IncludeHeader, "Y")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get(query.TotalRecordsHeader))

		var list []authorOut
		data(t, w, &list)
		require.Len(t, list, 1)
		assert.Empty(t, list[0].Links)

		var one authorOut
		data(t, a.do(http.MethodGet, "/api/v2/authors/1", admin, "", hateoas.IncludeHeader, "Y"), &one)
		assert.Equal(t, "Rosario Castellanos", one.FullName)
		assert.Empty(t, one.Links)
	})

	t.Run("Cached list is evicted by v1 writes", func(t *testing.T) {
		assert.Equal(t, "MISS", a.do(http.MethodGet, "/api/v2/authors", "", "").Header().Get(output.StatusHeader))
		assert.Equal(t, "HIT", a.do(http.MethodGet, "/api/v2/authors", "", "").Header().Get(output.StatusHeader))

		a.createAuthor(admin, `{"names":"Elena","lastNames":"Poniatowska"}`)

		w := a.do(http.MethodGet, "/api/v2/authors", "", "")
		assert.Equal(t, "MISS", w.Header().Get(output.StatusHeader))
		assert.Equal(t, "2", w.Header().Get(query.TotalRecordsHeader))
	})

	t.Run("Filter", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v2/authors/filter?lastNames=PONIA", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var found []authorOut
		data(t, w, &found)
		require.Len(t, found, 1)
		assert.Equal(t, "Elena Poniatowska", found[0].FullName)
	})

	t.Run("Put, patch and delete", func(t *testing.T) {
		w := a.do(http.MethodPut, "/api/v2/authors/1", admin, `{"names":"Rosario","lastNames":"Castellanos Figueroa"}`)
		assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = a.do(http.MethodPatch, "/api/v2/authors/1", admin, `[{"op":"replace","path":"/names","value":"Rosa"}]`)
		assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		var got authorOut
		data(t, a.do(http.MethodGet, "/api/v1/authors/1", "", ""), &got)
		assert.Equal(t, "Rosa Castellanos Figueroa", got.FullName)

		assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/api/v2/authors/1", a.token("2", false), "").Code)
		assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v2/authors/1", admin, "").Code)
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v2/authors/1", "", "").Code)
	})
}

func TestAuthorsCollection(t *testing.T) {
	a := newAPI(t)
	admin := a.token("1", true)

	w := a.do(http.MethodPost, "/api/v2/authors-collection", admin,
		`[{"names":"Mario","lastNames":"Vargas"},{"names":"Octavio","lastNames":"Paz"}]`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "http://example.com/api/v2/authors-collection/1,2", w.Header().Get("Location"))

	w = a.do(http.MethodPost, "/api/v2/authors-collection", admin, `[{"names":"mario","lastNames":"Vargas"}]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var got []authorOut
	w = a.do(http.MethodGet, "/api/v2/authors-collection/2,x,1", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	data(t, w, &got)
	assert.Len(t, got, 2)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v2/authors-collection/x,y", admin, "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v2/authors-collection/1,9", admin, "").Code)
}

func TestBooksAndComments(t *testing.T) {
	a := newAPI(t)
	admin := a.token("1", true)
	a.createAuthor(admin, `{"names":"Gabriel","lastNames":"García"}`)
	a.createAuthor(admin, `{"names":"Julio","lastNames":"Cortázar"}`)

	t.Run("Book needs existing authors", func(t *testing.T) {
		w := a.do(http.MethodPost, "/api/v1/books", admin, `{"title":"Ghost","authorIds":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Cannot create a book without authors", data(t, w, nil).Message)

		w = a.do(http.MethodPost, "/api/v1/books", admin, `{"title":"Ghost","authorIds":[1,7]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w := a.do(http.MethodPost, "/api/v1/books", admin, `{"title":"El 100% real","authorIds":[2,1]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("Byline order and author books", func(t *testing.T) {
		var book struct {
			Title   string `json:"title"`
			Authors []struct {
				ID    int64 `json:"id"`
				Order int   `json:"order"`
			} `json:"authors"`
		}
		data(t, a.do(http.MethodGet, "/api/v1/books/1", "", ""), &book)
		require.Len(t, book.Authors, 2)
		assert.Equal(t, int64(2), book.Authors[0].ID)
		assert.Equal(t, 1, book.Authors[1].Order)

		var author authorOut
		data(t, a.do(http.MethodGet, "/api/v1/authors/1", "", ""), &author)
		require.Len(t, author.Books, 1)
		assert.Equal(t, "El 100% real", author.Books[0].Title)
	})

	reader := a.token("5", false)
	other := a.token("6", false)

	t.Run("Comments", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/v1/books/1/comments", "", `{"body":"hi"}`).Code)
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/v1/books/9/comments", reader, `{"body":"hi"}`).Code)

		w := a.do(http.MethodPost, "/api/v1/books/1/comments", reader, `{"body":"Loved it"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created struct {
			ID        string `json:"id"`
			UserEmail string `json:"userEmail"`
		}
		data(t, w, &created)
		assert.Equal(t, "user5@example.com", created.UserEmail)

		path := "/api/v1/books/1/comments/" + created.ID
		patch := `[{"op":"replace","path":"/body","value":"Loved it twice"}]`
		assert.Equal(t, http.StatusForbidden, a.do(http.MethodPatch, path, other, patch).Code)
		assert.Equal(t, http.StatusNoContent, a.do(http.MethodPatch, path, reader, patch).Code)

		var list []struct {
			Body string `json:"body"`
		}
		data(t, a.do(http.MethodGet, "/api/v1/books/1/comments", "", ""), &list)
		require.Len(t, list, 1)
		assert.Equal(t, "Loved it twice", list[0].Body)

		assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, reader, "").Code)
		assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, "", "").Code)
	})
}

func TestUsers(t *testing.T) {
	a := newAPI(t)
	creds := `{"email":"reader@example.com","password":"s3cret!"}`

	w := a.do(http.MethodPost, "/api/v1/users/register", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token auth.Token
	data(t, w, &token)
	require.NotEmpty(t, token.Token)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/users/register", "", creds).Code)

	w = a.do(http.MethodPost, "/api/v1/users/login", "", `{"email":"reader@example.com","password":"wrong-one"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect login", data(t, w, nil).Message)

	w = a.do(http.MethodPut, "/api/v1/users", token.Token, `{"birthDate":"1990-01-02T00:00:00Z"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	admin := a.token("99", true)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/v1/users/add-admin", token.Token, `{"email":"reader@example.com"}`).Code)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodPost, "/api/v1/users/add-admin", admin, `{"email":"reader@example.com"}`).Code)

	w = a.do(http.MethodGet, "/api/v1/users/renew-token", token.Token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var renewed auth.Token
	data(t, w, &renewed)

	id, err := a.tokens.Parse(renewed.Token)
	require.NoError(t, err)
	assert.Equal(t, "true", id.Claims[auth.AdminClaim])

	var users []struct {
		Email     string     `json:"email"`
		BirthDate *time.Time `json:"birthDate"`
		IsAdmin   bool       `json:"isAdmin"`
	}
	data(t, a.do(http.MethodGet, "/api/v1/users", renewed.Token, ""), &users)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin)
	require.NotNil(t, users[0].BirthDate)
}

func TestRootAndHealth(t *testing.T) {
	a := newAPI(t)

	descriptions := func(token string) []string {
		var links []hateoas.Link
		data(t, a.do(http.MethodGet, "/api/v1", token, ""), &links)
		out := make([]string, len(links))
		for i, l := range links {
			out[i] = l.Description
		}
		return out
	}

	anon := descriptions("")
	assert.Contains(t, anon, "authors-get")
	assert.NotContains(t, anon, "users-renew-token")
	assert.NotContains(t, anon, "author-create")

	user := descriptions(a.token("3", false))
	assert.Contains(t, user, "users-renew-token")
	assert.NotContains(t, user, "author-create")

	assert.Contains(t, descriptions(a.token("1", true)), "author-create")

	var health struct {
		Status string `json:"status"`
	}
	w := a.do(http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data(t, w, &health)
	assert.Equal(t, "healthy", health.Status)
}
