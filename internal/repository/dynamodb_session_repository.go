package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/qcom/passguard/internal/models"
	"github.com/sirupsen/logrus"
)

// DynamoDBAPI is the subset of *dynamodb.Client the session store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoDBSessionStore stores one item per session in a single table keyed
// by PK/SK. The TTL attribute lets DynamoDB reap expired sessions; since
// reaping is lazy, Get also checks ExpiresAt.
type DynamoDBSessionStore struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
	now       func() time.Time
}

func NewDynamoDBSessionStore(client DynamoDBAPI, tableName string, logger *logrus.Logger) *DynamoDBSessionStore {
	return &DynamoDBSessionStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
		now:       time.Now,
	}
}

func sessionItemKey(sessionID string) map[string]types.AttributeValue {
	s := &models.SessionState{SessionID: sessionID}
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: s.GetPK()},
		"SK": &types.AttributeValueMemberS{Value: s.GetSK()},
	}
}

func (r *DynamoDBSessionStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            sessionItemKey(sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get session from DynamoDB")
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if result.Item == nil {
		return nil, ErrSessionNotFound
	}

	var state models.SessionState
	if err := attributevalue.UnmarshalMap(result.Item, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if r.now().After(state.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	return &state, nil
}

func (r *DynamoDBSessionStore) Save(ctx context.Context, state *models.SessionState) error {
	if r.now().After(state.ExpiresAt) {
		return ErrSessionNotFound
	}

	item, err := attributevalue.MarshalMap(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	for k, v := range sessionItemKey(state.SessionID) {
		item[k] = v
	}
	item["TTL"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", state.ExpiresAt.Unix())}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to store session in DynamoDB")
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (r *DynamoDBSessionStore) Delete(ctx context.Context, sessionID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       sessionItemKey(sessionID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
