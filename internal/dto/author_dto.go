package dto

import (
	"strconv"

	"libraryapi/internal/domain"
	"libraryapi/internal/hateoas"
)

type AuthorDTO struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Photo    string `json:"photo,omitempty"`
	hateoas.Resource
}

func (a AuthorDTO) ResourceID() string {
	return strconv.FormatInt(a.ID, 10)
}

// AuthorWithBooksDTO is an author plus the titles of their books. Books is
// omitted when the caller did not ask for it.
type AuthorWithBooksDTO struct {
	AuthorDTO
	Books []BookSummaryDTO `json:"books,omitempty"`
}

type BookSummaryDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func NewAuthorDTO(a *domain.Author) AuthorDTO {
	return AuthorDTO{
		ID:       a.ID,
		FullName: a.FullName(),
		Photo:    a.Photo,
	}
}

func NewAuthorWithBooksDTO(a *domain.Author) AuthorWithBooksDTO {
	out := AuthorWithBooksDTO{AuthorDTO: NewAuthorDTO(a)}
	if a.Books != nil {
		out.Books = make([]BookSummaryDTO, len(a.Books))
		for i, b := range a.Books {
			out.Books[i] = BookSummaryDTO{ID: b.ID, Title: b.Title}
		}
	}
	return out
}

func NewAuthorDTOs(authors []*domain.Author) []AuthorDTO {
	out := make([]AuthorDTO, len(authors))
	for i, a := range authors {
		out[i] = NewAuthorDTO(a)
	}
	return out
}

func NewAuthorWithBooksDTOs(authors []*domain.Author) []AuthorWithBooksDTO {
	out := make([]AuthorWithBooksDTO, len(authors))
	for i, a := range authors {
		out[i] = NewAuthorWithBooksDTO(a)
	}
	return out
}
