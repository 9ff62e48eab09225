package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	repository "libraryapi/internal/repository/iface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PublishedIndex is the local secondary index ordering a book's comments by publication time.
const PublishedIndex = "book_published_index"

type commentRepository struct {
	client    API
	tableName string
	logger    logger.Logger
}

// NewCommentRepository creates a DynamoDB comment repository
func NewCommentRepository(client API, tableName string, log logger.Logger) repository.CommentRepository {
	return &commentRepository{
		client:    client,
		tableName: tableName,
		logger:    log.With(logger.String("component", "comment_repository")),
	}
}

func commentKey(bookID int64, commentID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"book_id":    &types.AttributeValueMemberN{Value: strconv.FormatInt(bookID, 10)},
		"comment_id": &types.AttributeValueMemberS{Value: commentID},
	}
}

func (r *commentRepository) ListByBook(ctx context.Context, bookID int64) ([]*domain.Comment, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(PublishedIndex),
		KeyConditionExpression: aws.String("book_id = :book_id"),
		FilterExpression:       aws.String("is_deleted = :false"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":book_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(bookID, 10)},
			":false":   &types.AttributeValueMemberBOOL{Value: false},
		},
		ScanIndexForward: aws.Bool(false), // Newest first
	}

	comments := make([]*domain.Comment, 0)
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			r.logger.Error("failed to query comments",
				logger.Int64("book_id", bookID),
				logger.Error(err))
			return nil, fmt.Errorf("failed to query comments: %w", err)
		}

		for _, item := range result.Items {
			var comment domain.Comment
			if err := attributevalue.UnmarshalMap(item, &comment); err != nil {
				r.logger.Warn("failed to unmarshal comment", logger.Error(err))
				continue
			}
			comments = append(comments, &comment)
		}

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return comments, nil
}

func (r *commentRepository) GetByID(ctx context.Context, bookID int64, commentID string) (*domain.Comment, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       commentKey(bookID, commentID),
	})
	if err != nil {
		r.logger.Error("failed to get comment", logger.Error(err))
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}

	var comment domain.Comment
	if err := attributevalue.UnmarshalMap(result.Item, &comment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}

	if comment.IsDeleted {
		return nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}

	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	item, err := attributevalue.MarshalMap(comment)
	if err != nil {
		r.logger.Error("failed to marshal comment", logger.Error(err))
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(comment_id)"),
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			r.logger.Warn("duplicate comment id", logger.String("comment_id", comment.CommentID))
			return fmt.Errorf("comment %s: %w", comment.CommentID, domain.ErrConflict)
		}
		r.logger.Error("failed to create comment", logger.Error(err))
		return fmt.Errorf("failed to create comment: %w", err)
	}

	r.logger.Debug("comment created",
		logger.Int64("book_id", comment.BookID),
		logger.String("comment_id", comment.CommentID))

	return nil
}

// updateVisible applies update to a comment that exists and is not soft-deleted.
func (r *commentRepository) updateVisible(ctx context.Context, bookID int64, commentID, update string, values map[string]types.AttributeValue) error {
	values[":false"] = &types.AttributeValueMemberBOOL{Value: false}

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       commentKey(bookID, commentID),
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("attribute_exists(comment_id) AND is_deleted = :false"),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
		}
		r.logger.Error("failed to update comment",
			logger.String("comment_id", commentID),
			logger.Error(err))
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r *commentRepository) UpdateBody(ctx context.Context, bookID int64, commentID, body string) error {
	return r.updateVisible(ctx, bookID, commentID, "SET body = :body", map[string]types.AttributeValue{
		":body": &types.AttributeValueMemberS{Value: body},
	})
}

func (r *commentRepository) SoftDelete(ctx context.Context, bookID int64, commentID string) error {
	return r.updateVisible(ctx, bookID, commentID, "SET is_deleted = :true", map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	})
}
