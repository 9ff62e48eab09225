package dynamodb

import (
	"context"
	"fmt"

	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	repository "libraryapi/internal/repository/iface"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type errorLogRepository struct {
	client    API
	tableName string
	logger    logger.Logger
}

// NewErrorLogRepository creates a DynamoDB error log repository
func NewErrorLogRepository(client API, tableName string, log logger.Logger) repository.ErrorLogRepository {
	return &errorLogRepository{
		client:    client,
		tableName: tableName,
		logger:    log.With(logger.String("component", "error_log_repository")),
	}
}

func (r *errorLogRepository) Create(ctx context.Context, record *domain.ErrorRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal error record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.Error("failed to store error record", logger.Error(err))
		return fmt.Errorf("failed to store error record: %w", err)
	}

	r.logger.Debug("error record stored", logger.String("error_id", record.ErrorID))
	return nil
}
