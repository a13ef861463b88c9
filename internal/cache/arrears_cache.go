package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ArrearsCache keeps computed arrears summaries in one Redis hash per
// contract, one field per as-of month. Deleting the hash invalidates every
// as-of month at once.
type ArrearsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewArrearsCache(client *redis.Client, ttl time.Duration) *ArrearsCache {
	return &ArrearsCache{client: client, ttl: ttl}
}

func arrearsKey(contractID uuid.UUID) string {
	return fmt.Sprintf("arrears:%s", contractID)
}

// Get returns the cached summary, or nil on a miss.
func (c *ArrearsCache) Get(ctx context.Context, contractID uuid.UUID, asOf domain.Period) (*domain.ArrearsSummary, error) {
	raw, err := c.client.HGet(ctx, arrearsKey(contractID), asOf.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary domain.ArrearsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decode cached arrears: %w", err)
	}
	return &summary, nil
}

func (c *ArrearsCache) Set(ctx context.Context, summary *domain.ArrearsSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := arrearsKey(summary.ContractID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, summary.AsOf.String(), raw)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate drops every cached summary of the contract.
func (c *ArrearsCache) Invalidate(ctx context.Context, contractID uuid.UUID) error {
	return c.client.Del(ctx, arrearsKey(contractID)).Err()
}

// Ping is used by the readiness probe.
func (c *ArrearsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
