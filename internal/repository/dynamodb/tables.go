package dynamodb

import (
	"context"
	"fmt"

	"libraryapi/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableCreator is the part of the DynamoDB client needed to bootstrap tables.
type TableCreator interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// EnsureTables creates the comments and error log tables when they are missing.
func EnsureTables(ctx context.Context, client TableCreator, commentsTable, errorsTable string, log logger.Logger) error {
	inputs := []*dynamodb.CreateTableInput{
		{
			TableName: aws.String(commentsTable),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("book_id"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String("comment_id"), KeyType: types.KeyTypeRange},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("book_id"), AttributeType: types.ScalarAttributeTypeN},
				{AttributeName: aws.String("comment_id"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("published_at"), AttributeType: types.ScalarAttributeTypeN},
			},
			LocalSecondaryIndexes: []types.LocalSecondaryIndex{
				{
					IndexName: aws.String(PublishedIndex),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("book_id"), KeyType: types.KeyTypeHash},
						{AttributeName: aws.String("published_at"), KeyType: types.KeyTypeRange},
					},
					Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				},
			},
			BillingMode: types.BillingModePayPerRequest,
		},
		{
			TableName: aws.String(errorsTable),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("error_id"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("error_id"), AttributeType: types.ScalarAttributeTypeS},
			},
			BillingMode: types.BillingModePayPerRequest,
		},
	}

	for _, input := range inputs {
		_, err := client.CreateTable(ctx, input)
		if err == nil {
			log.Info("created dynamodb table", logger.String("table", *input.TableName))
			continue
		}
		if IsTableExists(err) {
			continue
		}
		return fmt.Errorf("failed to create table %s: %w", *input.TableName, err)
	}

	return nil
}
