package dto

import (
	"time"

	"libraryapi/internal/domain"
)

type CommentDTO struct {
	ID          string    `json:"id"`
	BookID      int64     `json:"bookId"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"publishedAt"`
	UserID      string    `json:"userId"`
	UserEmail   string    `json:"userEmail"`
}

func NewCommentDTO(c *domain.Comment) CommentDTO {
	return CommentDTO{
		ID:          c.CommentID,
		BookID:      c.BookID,
		Body:        c.Body,
		PublishedAt: c.PublishedTime(),
		UserID:      c.UserID,
		UserEmail:   c.UserEmail,
	}
}

func NewCommentDTOs(comments []*domain.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = NewCommentDTO(c)
	}
	return out
}
