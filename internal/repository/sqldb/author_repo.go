package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	repository "libraryapi/internal/repository/iface"
)

const authorColumns = "a.id, a.names, a.last_names, a.identification, a.photo"

// sortColumns is the closed mapping from sort keys to columns.
var sortColumns = map[query.SortKey]string{
	query.SortByNames:          "a.names",
	query.SortByLastNames:      "a.last_names",
	query.SortByIdentification: "a.identification",
	query.SortByID:             "a.id",
}

type authorRepository struct {
	db     *DB
	logger logger.Logger
}

// NewAuthorRepository creates a SQL author repository
func NewAuthorRepository(db *DB, log logger.Logger) repository.AuthorRepository {
	return &authorRepository{
		db:     db,
		logger: log.With(logger.String("component", "author_repository")),
	}
}

func scanAuthors(rows *sql.Rows) ([]*domain.Author, error) {
	defer rows.Close()

	authors := make([]*domain.Author, 0)
	for rows.Next() {
		var (
			a              domain.Author
			identification sql.NullString
			photo          sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Names, &a.LastNames, &identification, &photo); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		a.Identification = identification.String
		a.Photo = photo.String
		authors = append(authors, &a)
	}

	return authors, rows.Err()
}

// authorPredicate renders plan clauses as a WHERE fragment over alias a.
func authorPredicate(d Dialect, clauses []query.Clause) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}

	terms := make([]string, 0, len(clauses))
	args := make([]any, 0, len(clauses))

	for _, c := range clauses {
		switch c.Kind {
		case query.ClauseNamesContains:
			terms = append(terms, d.Fold("a.names")+` LIKE ? ESCAPE '\'`)
			args = append(args, containsPattern(c.Text))
		case query.ClauseLastNamesContains:
			terms = append(terms, d.Fold("a.last_names")+` LIKE ? ESCAPE '\'`)
			args = append(args, containsPattern(c.Text))
		case query.ClauseHasPhoto:
			if c.Present {
				terms = append(terms, "(a.photo IS NOT NULL AND a.photo <> '')")
			} else {
				terms = append(terms, "(a.photo IS NULL OR a.photo = '')")
			}
		case query.ClauseHasBooks:
			exists := "EXISTS (SELECT 1 FROM author_books ab WHERE ab.author_id = a.id)"
			if !c.Present {
				exists = "NOT " + exists
			}
			terms = append(terms, exists)
		case query.ClauseBookTitleContains:
			terms = append(terms, `EXISTS (SELECT 1 FROM author_books ab JOIN books b ON b.id = ab.book_id `+
				`WHERE ab.author_id = a.id AND `+d.Fold("b.title")+` LIKE ? ESCAPE '\')`)
			args = append(args, containsPattern(c.Text))
		}
	}

	return " WHERE " + strings.Join(terms, " AND "), args
}

// orderClause always ends with the id tiebreaker so pages are stable.
func orderClause(o query.Order) string {
	column, ok := sortColumns[o.Key]
	if !ok {
		column = sortColumns[query.DefaultOrder.Key]
		o.Ascending = query.DefaultOrder.Ascending
	}

	dir := "ASC"
	if !o.Ascending {
		dir = "DESC"
	}

	if column == "a.id" {
		return " ORDER BY a.id " + dir
	}
	return fmt.Sprintf(" ORDER BY %s %s, a.id ASC", column, dir)
}

func (r *authorRepository) page(ctx context.Context, where string, args []any, order query.Order, page query.Page) (*repository.AuthorPage, error) {
	c := r.db.conn()

	var total int64
	if err := c.queryRow(ctx, "SELECT COUNT(*) FROM authors a"+where, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count authors", logger.Error(err))
		return nil, fmt.Errorf("failed to count authors: %w", err)
	}

	pageArgs := append(append([]any{}, args...), page.Limit(), page.Offset())
	rows, err := c.query(ctx, "SELECT "+authorColumns+" FROM authors a"+where+orderClause(order)+" LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		r.logger.Error("failed to query authors", logger.Error(err))
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}

	authors, err := scanAuthors(rows)
	if err != nil {
		return nil, err
	}

	return &repository.AuthorPage{Authors: authors, Total: total}, nil
}

func (r *authorRepository) List(ctx context.Context, page query.Page) (*repository.AuthorPage, error) {
	return r.page(ctx, "", nil, query.DefaultOrder, page)
}

func (r *authorRepository) Search(ctx context.Context, plan query.Plan) (*repository.AuthorPage, error) {
	if plan.Empty {
		return &repository.AuthorPage{Authors: []*domain.Author{}}, nil
	}

	where, args := authorPredicate(r.db.Dialect(), plan.Clauses)
	result, err := r.page(ctx, where, args, plan.Order, plan.Page)
	if err != nil {
		return nil, err
	}

	if plan.IncludeBooks {
		if err := r.loadBooks(ctx, r.db.conn(), result.Authors); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// loadBooks attaches every author's books in byline order.
func (r *authorRepository) loadBooks(ctx context.Context, c conn, authors []*domain.Author) error {
	if len(authors) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Author, len(authors))
	ids := make([]int64, 0, len(authors))
	for _, a := range authors {
		a.Books = []domain.BookRef{}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	rows, err := c.query(ctx,
		"SELECT ab.author_id, b.id, b.title FROM author_books ab JOIN books b ON b.id = ab.book_id "+
			"WHERE ab.author_id IN ("+placeholders(len(ids))+") ORDER BY ab.author_id, ab.position, b.id",
		int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query author books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			authorID int64
			book     domain.BookRef
		)
		if err := rows.Scan(&authorID, &book.ID, &book.Title); err != nil {
			return fmt.Errorf("failed to scan author book: %w", err)
		}
		if a, ok := byID[authorID]; ok {
			a.Books = append(a.Books, book)
		}
	}

	return rows.Err()
}

func (r *authorRepository) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	c := r.db.conn()

	var (
		a              domain.Author
		identification sql.NullString
		photo          sql.NullString
	)
	err := c.queryRow(ctx, "SELECT "+authorColumns+" FROM authors a WHERE a.id = ?", id).
		Scan(&a.ID, &a.Names, &a.LastNames, &identification, &photo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("author %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get author", logger.Int64("author_id", id), logger.Error(err))
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	a.Identification = identification.String
	a.Photo = photo.String

	if err := r.loadBooks(ctx, c, []*domain.Author{&a}); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *authorRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Author, error) {
	if len(ids) == 0 {
		return []*domain.Author{}, nil
	}

	c := r.db.conn()
	rows, err := c.query(ctx,
		"SELECT "+authorColumns+" FROM authors a WHERE a.id IN ("+placeholders(len(ids))+") ORDER BY a.id",
		int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}

	authors, err := scanAuthors(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadBooks(ctx, c, authors); err != nil {
		return nil, err
	}

	return authors, nil
}

func (r *authorRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	rows, err := r.db.conn().query(ctx,
		"SELECT id FROM authors WHERE id IN ("+placeholders(len(ids))+")",
		int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query author ids: %w", err)
	}
	defer rows.Close()

	found := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan author id: %w", err)
		}
		found = append(found, id)
	}

	return found, rows.Err()
}

func insertAuthor(ctx context.Context, c conn, a *domain.Author) error {
	return c.queryRow(ctx,
		"INSERT INTO authors (names, last_names, identification, photo) VALUES (?, ?, ?, ?) RETURNING id",
		a.Names, a.LastNames, nullString(a.Identification), nullString(a.Photo),
	).Scan(&a.ID)
}

func (r *authorRepository) Create(ctx context.Context, author *domain.Author) error {
	if err := insertAuthor(ctx, r.db.conn(), author); err != nil {
		r.logger.Error("failed to create author", logger.Error(err))
		return fmt.Errorf("failed to create author: %w", err)
	}

	r.logger.Debug("author created", logger.Int64("author_id", author.ID))
	return nil
}

func (r *authorRepository) CreateBatch(ctx context.Context, authors []*domain.Author) error {
	err := r.db.inTx(ctx, func(c conn) error {
		for _, a := range authors {
			if err := insertAuthor(ctx, c, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to create authors", logger.Int("count", len(authors)), logger.Error(err))
		return fmt.Errorf("failed to create authors: %w", err)
	}

	return nil
}

func (r *authorRepository) Update(ctx context.Context, author *domain.Author) error {
	res, err := r.db.conn().exec(ctx,
		"UPDATE authors SET names = ?, last_names = ?, identification = ?, photo = ? WHERE id = ?",
		author.Names, author.LastNames, nullString(author.Identification), nullString(author.Photo), author.ID)
	if err != nil {
		r.logger.Error("failed to update author", logger.Int64("author_id", author.ID), logger.Error(err))
		return fmt.Errorf("failed to update author: %w", err)
	}

	return affected(res, fmt.Errorf("author %d: %w", author.ID, domain.ErrNotFound))
}

func (r *authorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn().exec(ctx, "DELETE FROM authors WHERE id = ?", id)
	if err != nil {
		r.logger.Error("failed to delete author", logger.Int64("author_id", id), logger.Error(err))
		return fmt.Errorf("failed to delete author: %w", err)
	}

	return affected(res, fmt.Errorf("author %d: %w", id, domain.ErrNotFound))
}
