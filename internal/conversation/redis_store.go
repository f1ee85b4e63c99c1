package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const redisIndexKey = "honeypot:conversations"

// RedisStore persists conversations as JSON blobs keyed by id, with a set
// index for listing. A zero TTL keeps conversations until Redis evicts them.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore builds a store backed by the provided Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("honeypot.internal.conversation.redis"),
	}
}

func redisConversationKey(id string) string {
	return fmt.Sprintf("honeypot:conversation:%s", id)
}

// Get loads a conversation by id.
func (s *RedisStore) Get(ctx context.Context, id string) (*Conversation, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.redis.get")
	defer span.End()

	data, err := s.redis.Get(ctx, redisConversationKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load %s: %w", id, err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to decode %s: %w", id, err)
	}
	return &conv, nil
}

// Create stores a new conversation and indexes its id.
func (s *RedisStore) Create(ctx context.Context, conv *Conversation) error {
	ctx, span := s.tracer.Start(ctx, "conversation.redis.create")
	defer span.End()

	ok, err := s.redis.SetNX(ctx, redisConversationKey(conv.ID), mustMarshal(conv), s.ttl).Result()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to create %s: %w", conv.ID, err)
	}
	if !ok {
		return ErrAlreadyExists
	}
	if err := s.redis.SAdd(ctx, redisIndexKey, conv.ID).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to index %s: %w", conv.ID, err)
	}
	return nil
}

// Append persists the updated conversation.
func (s *RedisStore) Append(ctx context.Context, conv *Conversation) error {
	ctx, span := s.tracer.Start(ctx, "conversation.redis.append")
	defer span.End()

	if err := s.redis.Set(ctx, redisConversationKey(conv.ID), mustMarshal(conv), s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist %s: %w", conv.ID, err)
	}
	return nil
}

// List returns summary rows for every indexed conversation. Ids whose blobs
// expired are skipped.
func (s *RedisStore) List(ctx context.Context) ([]ListItem, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.redis.list")
	defer span.End()

	ids, err := s.redis.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to list ids: %w", err)
	}

	items := make([]ListItem, 0, len(ids))
	for _, id := range ids {
		conv, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, conv.Summary())
	}
	sortListItems(items)
	return items, nil
}

func mustMarshal(conv *Conversation) []byte {
	data, err := json.Marshal(conv)
	if err != nil {
		// Conversation fields are all JSON-serializable; this is unreachable
		// short of a programming error.
		panic(fmt.Sprintf("conversation: marshal failed: %v", err))
	}
	return data
}
