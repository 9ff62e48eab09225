package dynamodb

import (
	"context"
	"errors"
	"testing"

	"libraryapi/internal/domain"
	"libraryapi/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	queryPages []*dynamodb.QueryOutput
	queries    []*dynamodb.QueryInput
	getOutput  *dynamodb.GetItemOutput
	putInput   *dynamodb.PutItemInput
	updateIn   *dynamodb.UpdateItemInput
	err        error
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putInput = in
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.getOutput, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateIn = in
	return &dynamodb.UpdateItemOutput{}, f.err
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	copied := *in
	f.queries = append(f.queries, &copied)
	page := f.queryPages[0]
	f.queryPages = f.queryPages[1:]
	return page, nil
}

func item(t *testing.T, c domain.Comment) map[string]types.AttributeValue {
	m, err := attributevalue.MarshalMap(c)
	require.NoError(t, err)
	return m
}

var conditionFailed = &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}

func TestCommentRepositoryListByBook(t *testing.T) {
	fake := &fakeDynamo{
		queryPages: []*dynamodb.QueryOutput{
			{
				Items:            []map[string]types.AttributeValue{item(t, domain.Comment{BookID: 1, CommentID: "b", PublishedAt: 20})},
				LastEvaluatedKey: commentKey(1, "b"),
			},
			{
				Items: []map[string]types.AttributeValue{item(t, domain.Comment{BookID: 1, CommentID: "a", PublishedAt: 10})},
			},
		},
	}
	repo := NewCommentRepository(fake, "comments", logger.NewNop())

	comments, err := repo.ListByBook(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, comments, 2)
	assert.Equal(t, "b", comments[0].CommentID)
	assert.Equal(t, "a", comments[1].CommentID)

	require.Len(t, fake.queries, 2)
	assert.Equal(t, PublishedIndex, *fake.queries[0].IndexName)
	assert.False(t, *fake.queries[0].ScanIndexForward)
	assert.Nil(t, fake.queries[0].ExclusiveStartKey)
	assert.NotNil(t, fake.queries[1].ExclusiveStartKey)
}

func TestCommentRepositoryGetByID(t *testing.T) {
	t.Run("Missing item is not found", func(t *testing.T) {
		repo := NewCommentRepository(&fakeDynamo{getOutput: &dynamodb.GetItemOutput{}}, "comments", logger.NewNop())

		_, err := repo.GetByID(context.Background(), 1, "x")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("Soft-deleted item is not found", func(t *testing.T) {
		fake := &fakeDynamo{getOutput: &dynamodb.GetItemOutput{
			Item: item(t, domain.Comment{BookID: 1, CommentID: "x", IsDeleted: true}),
		}}
		repo := NewCommentRepository(fake, "comments", logger.NewNop())

		_, err := repo.GetByID(context.Background(), 1, "x")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("Visible item is returned", func(t *testing.T) {
		fake := &fakeDynamo{getOutput: &dynamodb.GetItemOutput{
			Item: item(t, domain.Comment{BookID: 1, CommentID: "x", Body: "great"}),
		}}
		repo := NewCommentRepository(fake, "comments", logger.NewNop())

		c, err := repo.GetByID(context.Background(), 1, "x")
		require.NoError(t, err)
		assert.Equal(t, "great", c.Body)
	})
}

func TestCommentRepositoryWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("Create guards against duplicate ids", func(t *testing.T) {
		fake := &fakeDynamo{err: conditionFailed}
		repo := NewCommentRepository(fake, "comments", logger.NewNop())

		err := repo.Create(ctx, domain.NewComment(1, "hi", "7", "a@b.c"))
		assert.True(t, domain.IsConflict(err))
		assert.Equal(t, "attribute_not_exists(comment_id)", *fake.putInput.ConditionExpression)
	})

	t.Run("Soft delete of a hidden comment is not found", func(t *testing.T) {
		fake := &fakeDynamo{err: conditionFailed}
		repo := NewCommentRepository(fake, "comments", logger.NewNop())

		err := repo.SoftDelete(ctx, 1, "x")
		assert.True(t, domain.IsNotFound(err))
		assert.Equal(t, "SET is_deleted = :true", *fake.updateIn.UpdateExpression)
	})

	t.Run("Update body sets the new text", func(t *testing.T) {
		fake := &fakeDynamo{}
		repo := NewCommentRepository(fake, "comments", logger.NewNop())

		require.NoError(t, repo.UpdateBody(ctx, 1, "x", "edited"))
		assert.Equal(t, &types.AttributeValueMemberS{Value: "edited"}, fake.updateIn.ExpressionAttributeValues[":body"])
	})

	t.Run("Other failures are wrapped", func(t *testing.T) {
		fake := &fakeDynamo{err: errors.New("throttled")}
		repo := NewCommentRepository(fake, "comments", logger.NewNop())

		err := repo.UpdateBody(ctx, 1, "x", "edited")
		require.Error(t, err)
		assert.False(t, domain.IsNotFound(err))
	})
}

type fakeTableCreator struct {
	created []string
	err     error
}

func (f *fakeTableCreator) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = append(f.created, *in.TableName)
	return &dynamodb.CreateTableOutput{}, f.err
}

func TestEnsureTables(t *testing.T) {
	t.Run("Existing tables are fine", func(t *testing.T) {
		fake := &fakeTableCreator{err: &types.ResourceInUseException{Message: aws.String("exists")}}
		require.NoError(t, EnsureTables(context.Background(), fake, "comments", "errors", logger.NewNop()))
		assert.Equal(t, []string{"comments", "errors"}, fake.created)
	})

	t.Run("Other errors stop the bootstrap", func(t *testing.T) {
		fake := &fakeTableCreator{err: errors.New("access denied")}
		assert.Error(t, EnsureTables(context.Background(), fake, "comments", "errors", logger.NewNop()))
		assert.Len(t, fake.created, 1)
	})
}
