package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prahari-ai/honeypot-platform/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoItem is the persisted row. The full conversation travels as a JSON
// payload; the summary columns exist so listing scans stay cheap.
type dynamoItem struct {
	ConversationID    string `dynamodbav:"conversationId"`
	Payload           string `dynamodbav:"payload"`
	ScamDetected      bool   `dynamodbav:"scamDetected"`
	TurnCount         int    `dynamodbav:"turnCount"`
	IntelligenceCount int    `dynamodbav:"intelligenceCount"`
	StartTime         string `dynamodbav:"startTime"`
	ExpiresAt         int64  `dynamodbav:"expiresAt,omitempty"`
}

// DynamoStore persists conversations to a DynamoDB table keyed by
// conversationId.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	logger    *logging.Logger
}

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, ttl time.Duration, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("conversation: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("conversation: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{client: client, tableName: tableName, ttl: ttl, logger: logger}
}

var _ Store = (*DynamoStore)(nil)

// Get loads a conversation by id.
func (s *DynamoStore) Get(ctx context.Context, id string) (*Conversation, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"conversationId": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load %s: %w", id, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("conversation: failed to unmarshal %s: %w", id, err)
	}

	var conv Conversation
	if err := json.Unmarshal([]byte(item.Payload), &conv); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode %s: %w", id, err)
	}
	return &conv, nil
}

// Create inserts a new conversation, refusing to overwrite an existing id.
func (s *DynamoStore) Create(ctx context.Context, conv *Conversation) error {
	item, err := s.marshalItem(conv)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(conversationId)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("conversation: failed to create %s: %w", conv.ID, err)
	}
	return nil
}

// Append upserts the updated conversation.
func (s *DynamoStore) Append(ctx context.Context, conv *Conversation) error {
	item, err := s.marshalItem(conv)
	if err != nil {
		return err
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("conversation: failed to persist %s: %w", conv.ID, err)
	}
	return nil
}

// List scans the summary columns of every conversation.
func (s *DynamoStore) List(ctx context.Context) ([]ListItem, error) {
	var items []ListItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(s.tableName),
			ProjectionExpression: aws.String("conversationId, scamDetected, turnCount, intelligenceCount, startTime"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("conversation: failed to scan: %w", err)
		}

		var rows []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &rows); err != nil {
			return nil, fmt.Errorf("conversation: failed to unmarshal scan page: %w", err)
		}
		for _, row := range rows {
			start, err := time.Parse(time.RFC3339Nano, row.StartTime)
			if err != nil {
				s.logger.Warn("skipping row with bad start time", "conversation_id", row.ConversationID, "error", err)
				continue
			}
			items = append(items, ListItem{
				ConversationID:    row.ConversationID,
				ScamDetected:      row.ScamDetected,
				TurnCount:         row.TurnCount,
				IntelligenceCount: row.IntelligenceCount,
				StartTime:         start,
			})
		}

		startKey = out.LastEvaluatedKey
		if len(startKey) == 0 {
			break
		}
	}
	sortListItems(items)
	return items, nil
}

func (s *DynamoStore) marshalItem(conv *Conversation) (map[string]types.AttributeValue, error) {
	payload, err := json.Marshal(conv)
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to marshal %s: %w", conv.ID, err)
	}
	item := dynamoItem{
		ConversationID:    conv.ID,
		Payload:           string(payload),
		ScamDetected:      conv.ScamDetected,
		TurnCount:         conv.TurnCount,
		IntelligenceCount: conv.Intelligence.TotalRecords(),
		StartTime:         conv.StartTime.UTC().Format(time.RFC3339Nano),
	}
	if s.ttl > 0 {
		item.ExpiresAt = time.Now().Add(s.ttl).Unix()
	}
	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to marshal item %s: %w", conv.ID, err)
	}
	return attrs, nil
}
