package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"libraryapi/internal/domain"
	"libraryapi/internal/query"
	repository "libraryapi/internal/repository/iface"
)

// window pages an already ordered slice the way LIMIT/OFFSET does.
func window[T any](items []T, p query.Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.Limit(), len(items))
	return items[start:end]
}

type recordingCoordinator struct {
	mu   sync.Mutex
	tags []string
}

func (r *recordingCoordinator) Invalidate(ctx context.Context, tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, tags...)
}

func (r *recordingCoordinator) invalidated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tags...)
}

var errStore = errors.New("store unavailable")

type fakeAuthors struct {
	byID   map[int64]*domain.Author
	nextID int64
	fail   bool
	plans  []query.Plan
}

func newFakeAuthors(authors ...*domain.Author) *fakeAuthors {
	f := &fakeAuthors{byID: map[int64]*domain.Author{}}
	for _, a := range authors {
		f.byID[a.ID] = a
		if a.ID > f.nextID {
			f.nextID = a.ID
		}
	}
	return f
}

func (f *fakeAuthors) sorted() []*domain.Author {
	out := make([]*domain.Author, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAuthors) List(ctx context.Context, page query.Page) (*repository.AuthorPage, error) {
	all := f.sorted()
	return &repository.AuthorPage{Authors: window(all, page), Total: int64(len(all))}, nil
}

func (f *fakeAuthors) Search(ctx context.Context, plan query.Plan) (*repository.AuthorPage, error) {
	f.plans = append(f.plans, plan)
	return f.List(ctx, plan.Page)
}

func (f *fakeAuthors) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAuthors) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Author, error) {
	out := make([]*domain.Author, 0, len(ids))
	for _, id := range ids {
		if a, ok := f.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAuthors) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeAuthors) Create(ctx context.Context, a *domain.Author) error {
	if f.fail {
		return errStore
	}
	f.nextID++
	a.ID = f.nextID
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAuthors) CreateBatch(ctx context.Context, authors []*domain.Author) error {
	for _, a := range authors {
		if err := f.Create(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAuthors) Update(ctx context.Context, a *domain.Author) error {
	if f.fail {
		return errStore
	}
	if _, ok := f.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAuthors) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeBooks struct {
	byID   map[int64]*domain.Book
	nextID int64
}

func newFakeBooks(ids ...int64) *fakeBooks {
	f := &fakeBooks{byID: map[int64]*domain.Book{}}
	for _, id := range ids {
		f.byID[id] = &domain.Book{ID: id, Title: "Book"}
		if id > f.nextID {
			f.nextID = id
		}
	}
	return f
}

func (f *fakeBooks) List(ctx context.Context, page query.Page) (*repository.BookPage, error) {
	return &repository.BookPage{}, nil
}

func (f *fakeBooks) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBooks) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeBooks) Create(ctx context.Context, b *domain.Book) error {
	f.nextID++
	b.ID = f.nextID
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBooks) Update(ctx context.Context, b *domain.Book) error {
	if _, ok := f.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBooks) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeComments struct {
	byID map[string]*domain.Comment
}

func newFakeComments(comments ...*domain.Comment) *fakeComments {
	f := &fakeComments{byID: map[string]*domain.Comment{}}
	for _, c := range comments {
		f.byID[c.CommentID] = c
	}
	return f
}

func (f *fakeComments) ListByBook(ctx context.Context, bookID int64) ([]*domain.Comment, error) {
	out := make([]*domain.Comment, 0)
	for _, c := range f.byID {
		if c.BookID == bookID && !c.IsDeleted {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt > out[j].PublishedAt })
	return out, nil
}

func (f *fakeComments) GetByID(ctx context.Context, bookID int64, id string) (*domain.Comment, error) {
	c, ok := f.byID[id]
	if !ok || c.BookID != bookID || c.IsDeleted {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeComments) Create(ctx context.Context, c *domain.Comment) error {
	f.byID[c.CommentID] = c
	return nil
}

func (f *fakeComments) UpdateBody(ctx context.Context, bookID int64, id, body string) error {
	c, err := f.GetByID(ctx, bookID, id)
	if err != nil {
		return err
	}
	c.Body = body
	return nil
}

func (f *fakeComments) SoftDelete(ctx context.Context, bookID int64, id string) error {
	c, err := f.GetByID(ctx, bookID, id)
	if err != nil {
		return err
	}
	c.IsDeleted = true
	return nil
}

type fakeUsers struct {
	byID   map[int64]*domain.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*domain.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	if u.Claims == nil {
		u.Claims = map[string]string{}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) UpdateBirthDate(ctx context.Context, id int64, birth *time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.BirthDate = birth
	return nil
}

func (f *fakeUsers) SetClaim(ctx context.Context, id int64, name, value string) error {
	f.byID[id].Claims[name] = value
	return nil
}

func (f *fakeUsers) RemoveClaim(ctx context.Context, id int64, name string) error {
	delete(f.byID[id].Claims, name)
	return nil
}
