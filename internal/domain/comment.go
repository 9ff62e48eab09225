package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is stored in DynamoDB, partitioned by book.
type Comment struct {
	BookID      int64  `json:"book_id" dynamodbav:"book_id"`
	CommentID   string `json:"comment_id" dynamodbav:"comment_id"`
	Body        string `json:"body" dynamodbav:"body"`
	PublishedAt int64  `json:"published_at" dynamodbav:"published_at"`
	UserID      string `json:"user_id" dynamodbav:"user_id"`
	UserEmail   string `json:"user_email" dynamodbav:"user_email"`
	IsDeleted   bool   `json:"is_deleted" dynamodbav:"is_deleted"`
}

// NewComment creates a comment published now by userID.
func NewComment(bookID int64, body, userID, userEmail string) *Comment {
	return &Comment{
		BookID:      bookID,
		CommentID:   uuid.New().String(),
		Body:        body,
		PublishedAt: time.Now().UnixMilli(),
		UserID:      userID,
		UserEmail:   userEmail,
	}
}

func (c *Comment) PublishedTime() time.Time {
	return time.UnixMilli(c.PublishedAt).UTC()
}
