package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
	"github.com/gurgen2727/travel-api/internal/domain/models"
	"github.com/gurgen2727/travel-api/internal/domain/ports"
	"github.com/redis/go-redis/v9"
)

// OffersCacheRepository memoizes provider responses so repeat sweeps
// over the same date grid do not burn API quota.
type OffersCacheRepository struct {
	redis *redis.Client
}

func NewOffersCacheRepository(redisClient *redis.Client) *OffersCacheRepository {
	return &OffersCacheRepository{redis: redisClient}
}

func (r *OffersCacheRepository) Get(ctx context.Context, q ports.OfferQuery) ([]models.Offer, error) {
	data, err := r.redis.Get(ctx, offersKey(q)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, derr.ErrOffersNotFound
		}
		return nil, fmt.Errorf("redis get offers: %w", err)
	}

	var offers []models.Offer
	if err := json.Unmarshal([]byte(data), &offers); err != nil {
		return nil, fmt.Errorf("unmarshal cached offers: %w", err)
	}
	return offers, nil
}

func (r *OffersCacheRepository) Set(ctx context.Context, q ports.OfferQuery, offers []models.Offer, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("marshal offers for cache: %w", err)
	}
	if err := r.redis.Set(ctx, offersKey(q), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set offers: %w", err)
	}
	return nil
}

func offersKey(q ports.OfferQuery) string {
	ret := "oneway"
	if q.RoundTrip() {
		ret = q.Return.Format("2006-01-02")
	}
	return fmt.Sprintf("offers:%s:%s:%s:%s:%t",
		strings.ToUpper(strings.TrimSpace(q.Origin)),
		strings.ToUpper(strings.TrimSpace(q.Destination)),
		q.Depart.Format("2006-01-02"),
		ret,
		q.Nonstop,
	)
}
