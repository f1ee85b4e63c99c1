package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prahari-ai/honeypot-platform/pkg/logging"
)

type mockDynamo struct {
	putInputs []*dynamodb.PutItemInput
	putErr    error
	getOutput *dynamodb.GetItemOutput
	getErr    error
	scanPages []*dynamodb.ScanOutput
	scanCalls int
}

func (m *mockDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.putInputs = append(m.putInputs, in)
	if m.putErr != nil {
		return nil, m.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.getOutput == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return m.getOutput, nil
}

func (m *mockDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.scanCalls >= len(m.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	page := m.scanPages[m.scanCalls]
	m.scanCalls++
	return page, nil
}

func TestDynamoStore_CreateSetsConditionAndSummary(t *testing.T) {
	mock := &mockDynamo{}
	store := NewDynamoStore(mock, "honeypot_conversations", time.Hour, logging.Default())

	conv := New("conv_d1")
	conv.TurnCount = 2
	conv.ScamDetected = true

	if err := store.Create(context.Background(), conv); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(mock.putInputs) != 1 {
		t.Fatalf("expected one PutItem call, got %d", len(mock.putInputs))
	}

	in := mock.putInputs[0]
	if in.ConditionExpression == nil || *in.ConditionExpression != "attribute_not_exists(conversationId)" {
		t.Fatalf("expected overwrite guard, got %v", in.ConditionExpression)
	}

	var stored dynamoItem
	if err := attributevalue.UnmarshalMap(in.Item, &stored); err != nil {
		t.Fatalf("failed to unmarshal stored item: %v", err)
	}
	if stored.ConversationID != "conv_d1" || stored.TurnCount != 2 || !stored.ScamDetected {
		t.Fatalf("unexpected summary attributes: %+v", stored)
	}
	if stored.Payload == "" {
		t.Fatal("expected payload to carry the serialized conversation")
	}
	if stored.ExpiresAt <= time.Now().Unix() {
		t.Fatal("expected TTL to be in the future")
	}
}

func TestDynamoStore_CreateDuplicate(t *testing.T) {
	mock := &mockDynamo{putErr: &types.ConditionalCheckFailedException{}}
	store := NewDynamoStore(mock, "honeypot_conversations", 0, logging.Default())

	if err := store.Create(context.Background(), New("conv_d1")); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDynamoStore_GetMissing(t *testing.T) {
	store := NewDynamoStore(&mockDynamo{}, "honeypot_conversations", 0, logging.Default())

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDynamoStore_GetRoundTrip(t *testing.T) {
	mock := &mockDynamo{}
	store := NewDynamoStore(mock, "honeypot_conversations", 0, logging.Default())

	conv := New("conv_d1")
	conv.TurnCount = 4
	if err := store.Append(context.Background(), conv); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	mock.getOutput = &dynamodb.GetItemOutput{Item: mock.putInputs[0].Item}

	got, err := store.Get(context.Background(), "conv_d1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ID != "conv_d1" || got.TurnCount != 4 {
		t.Fatalf("unexpected conversation: %+v", got)
	}
}

func TestDynamoStore_ListPaginatesAndSorts(t *testing.T) {
	mkRow := func(id string, start time.Time) map[string]types.AttributeValue {
		item, err := attributevalue.MarshalMap(dynamoItem{
			ConversationID: id,
			Payload:        "{}",
			StartTime:      start.Format(time.RFC3339Nano),
		})
		if err != nil {
			t.Fatalf("marshal row: %v", err)
		}
		return item
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock := &mockDynamo{
		scanPages: []*dynamodb.ScanOutput{
			{
				Items: []map[string]types.AttributeValue{mkRow("conv_later", base.Add(time.Hour))},
				LastEvaluatedKey: map[string]types.AttributeValue{
					"conversationId": &types.AttributeValueMemberS{Value: "conv_later"},
				},
			},
			{
				Items: []map[string]types.AttributeValue{mkRow("conv_earlier", base)},
			},
		},
	}
	store := NewDynamoStore(mock, "honeypot_conversations", 0, logging.Default())

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if mock.scanCalls != 2 {
		t.Fatalf("expected pagination to issue 2 scans, got %d", mock.scanCalls)
	}
	if len(items) != 2 || items[0].ConversationID != "conv_earlier" || items[1].ConversationID != "conv_later" {
		t.Fatalf("expected sorted rows, got %+v", items)
	}
}
