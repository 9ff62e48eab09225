package dto

import (
	"strings"

	"libraryapi/internal/domain"
)

type BookDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// BookWithAuthorsDTO lists the byline in order.
type BookWithAuthorsDTO struct {
	BookDTO
	Authors []BookAuthorDTO `json:"authors"`
}

type BookAuthorDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Order    int    `json:"order"`
}

func NewBookDTO(b *domain.Book) BookDTO {
	return BookDTO{ID: b.ID, Title: b.Title}
}

func NewBookDTOs(books []*domain.Book) []BookDTO {
	out := make([]BookDTO, len(books))
	for i, b := range books {
		out[i] = NewBookDTO(b)
	}
	return out
}

func NewBookWithAuthorsDTO(b *domain.Book) BookWithAuthorsDTO {
	authors := make([]BookAuthorDTO, len(b.Authors))
	for i, a := range b.Authors {
		authors[i] = BookAuthorDTO{
			ID:       a.ID,
			FullName: strings.TrimSpace(a.Names + " " + a.LastNames),
			Order:    a.Order,
		}
	}
	return BookWithAuthorsDTO{BookDTO: NewBookDTO(b), Authors: authors}
}
