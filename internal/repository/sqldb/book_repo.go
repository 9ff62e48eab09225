package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	"libraryapi/internal/query"
	repository "libraryapi/internal/repository/iface"
)

type bookRepository struct {
	db     *DB
	logger logger.Logger
}

// NewBookRepository creates a SQL book repository
func NewBookRepository(db *DB, log logger.Logger) repository.BookRepository {
	return &bookRepository{
		db:     db,
		logger: log.With(logger.String("component", "book_repository")),
	}
}

func (r *bookRepository) List(ctx context.Context, page query.Page) (*repository.BookPage, error) {
	c := r.db.conn()

	var total int64
	if err := c.queryRow(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	rows, err := c.query(ctx, "SELECT id, title FROM books ORDER BY title, id LIMIT ? OFFSET ?", page.Limit(), page.Offset())
	if err != nil {
		r.logger.Error("failed to query books", logger.Error(err))
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0, page.Limit())
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.BookPage{Books: books, Total: total}, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	c := r.db.conn()

	var b domain.Book
	err := c.queryRow(ctx, "SELECT id, title FROM books WHERE id = ?", id).Scan(&b.ID, &b.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get book", logger.Int64("book_id", id), logger.Error(err))
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	rows, err := c.query(ctx,
		"SELECT a.id, a.names, a.last_names, ab.position FROM author_books ab JOIN authors a ON a.id = ab.author_id "+
			"WHERE ab.book_id = ? ORDER BY ab.position, a.id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query book authors: %w", err)
	}
	defer rows.Close()

	b.Authors = []domain.AuthorRef{}
	for rows.Next() {
		var a domain.AuthorRef
		if err := rows.Scan(&a.ID, &a.Names, &a.LastNames, &a.Order); err != nil {
			return nil, fmt.Errorf("failed to scan book author: %w", err)
		}
		b.Authors = append(b.Authors, a)
	}

	return &b, rows.Err()
}

func (r *bookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.conn().queryRow(ctx, "SELECT COUNT(*) FROM books WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	return n > 0, nil
}

func insertByline(ctx context.Context, c conn, book *domain.Book) error {
	for _, a := range book.Authors {
		if _, err := c.exec(ctx,
			"INSERT INTO author_books (author_id, book_id, position) VALUES (?, ?, ?)",
			a.ID, book.ID, a.Order); err != nil {
			return fmt.Errorf("failed to link author %d: %w", a.ID, err)
		}
	}
	return nil
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	err := r.db.inTx(ctx, func(c conn) error {
		if err := c.queryRow(ctx, "INSERT INTO books (title) VALUES (?) RETURNING id", book.Title).Scan(&book.ID); err != nil {
			return fmt.Errorf("failed to insert book: %w", err)
		}
		return insertByline(ctx, c, book)
	})
	if err != nil {
		r.logger.Error("failed to create book", logger.Error(err))
		return fmt.Errorf("failed to create book: %w", err)
	}

	r.logger.Debug("book created",
		logger.Int64("book_id", book.ID),
		logger.Int("authors", len(book.Authors)))
	return nil
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	err := r.db.inTx(ctx, func(c conn) error {
		res, err := c.exec(ctx, "UPDATE books SET title = ? WHERE id = ?", book.Title, book.ID)
		if err != nil {
			return fmt.Errorf("failed to update book: %w", err)
		}
		if err := affected(res, fmt.Errorf("book %d: %w", book.ID, domain.ErrNotFound)); err != nil {
			return err
		}

		if _, err := c.exec(ctx, "DELETE FROM author_books WHERE book_id = ?", book.ID); err != nil {
			return fmt.Errorf("failed to clear byline: %w", err)
		}
		return insertByline(ctx, c, book)
	})
	if err != nil && !domain.IsNotFound(err) {
		r.logger.Error("failed to update book", logger.Int64("book_id", book.ID), logger.Error(err))
	}
	return err
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn().exec(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		r.logger.Error("failed to delete book", logger.Int64("book_id", id), logger.Error(err))
		return fmt.Errorf("failed to delete book: %w", err)
	}

	return affected(res, fmt.Errorf("book %d: %w", id, domain.ErrNotFound))
}
