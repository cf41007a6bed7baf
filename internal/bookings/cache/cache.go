package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"studio/pkg/model"

	"github.com/redis/go-redis/v9"
)

const (
	OpenSlotsKey          = "slots:open"
	OpenSlotsGenKey       = "slots:open:gen"
	userBookingsKeyPrefix = "bookings:user:"
)

// Cache holds short-lived copies of read-heavy listings. Misses and errors are
// reported separately so callers can fall back to the store.
//
// Every listing has a generation that invalidation bumps. A caller reads the
// generation before querying the store and hands it to the setter; an entry
// whose generation is no longer current is treated as a miss, so a fill that
// raced with a write can never be served.
type Cache interface {
	OpenSlotsGeneration(ctx context.Context) (int64, error)
	GetOpenSlots(ctx context.Context) ([]*model.Slot, bool, error)
	SetOpenSlots(ctx context.Context, gen int64, slots []*model.Slot) error
	InvalidateOpenSlots(ctx context.Context) error

	UserBookingsGeneration(ctx context.Context, userID string) (int64, error)
	GetUserBookings(ctx context.Context, userID string) ([]*model.BookingWithSlot, bool, error)
	SetUserBookings(ctx context.Context, userID string, gen int64, bookings []*model.BookingWithSlot) error
	InvalidateUserBookings(ctx context.Context, userIDs ...string) error
}

func UserBookingsKey(userID string) string {
	return userBookingsKeyPrefix + userID
}

func UserBookingsGenKey(userID string) string {
	return UserBookingsKey(userID) + ":gen"
}

type entry[T any] struct {
	Gen  int64 `json:"gen"`
	Data T     `json:"data"`
}

type redisCache struct {
	client          redis.Cmdable
	slotsTTL        time.Duration
	userBookingsTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, slotsTTL, userBookingsTTL time.Duration) Cache {
	return &redisCache{
		client:          client,
		slotsTTL:        slotsTTL,
		userBookingsTTL: userBookingsTTL,
	}
}

func (c *redisCache) OpenSlotsGeneration(ctx context.Context) (int64, error) {
	return c.generation(ctx, OpenSlotsGenKey)
}

func (c *redisCache) GetOpenSlots(ctx context.Context) ([]*model.Slot, bool, error) {
	var e entry[[]*model.Slot]
	found, err := c.getCurrent(ctx, OpenSlotsKey, OpenSlotsGenKey, &e)
	return e.Data, found, err
}

func (c *redisCache) SetOpenSlots(ctx context.Context, gen int64, slots []*model.Slot) error {
	return c.setJSON(ctx, OpenSlotsKey, entry[[]*model.Slot]{Gen: gen, Data: slots}, c.slotsTTL)
}

func (c *redisCache) InvalidateOpenSlots(ctx context.Context) error {
	if err := c.client.Incr(ctx, OpenSlotsGenKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate open slots: %w", err)
	}
	if err := c.client.Del(ctx, OpenSlotsKey).Err(); err != nil {
		return fmt.Errorf("failed to drop open slots: %w", err)
	}
	return nil
}

func (c *redisCache) UserBookingsGeneration(ctx context.Context, userID string) (int64, error) {
	return c.generation(ctx, UserBookingsGenKey(userID))
}

func (c *redisCache) GetUserBookings(ctx context.Context, userID string) ([]*model.BookingWithSlot, bool, error) {
	var e entry[[]*model.BookingWithSlot]
	found, err := c.getCurrent(ctx, UserBookingsKey(userID), UserBookingsGenKey(userID), &e)
	return e.Data, found, err
}

func (c *redisCache) SetUserBookings(ctx context.Context, userID string, gen int64, bookings []*model.BookingWithSlot) error {
	return c.setJSON(ctx, UserBookingsKey(userID), entry[[]*model.BookingWithSlot]{Gen: gen, Data: bookings}, c.userBookingsTTL)
}

// InvalidateUserBookings bumps each user's generation. Generation keys outlive
// the entries they guard, so an expired counter never revives a stale entry.
func (c *redisCache) InvalidateUserBookings(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		genKey := UserBookingsGenKey(id)
		if err := c.client.Incr(ctx, genKey).Err(); err != nil {
			return fmt.Errorf("failed to invalidate user bookings: %w", err)
		}
		if err := c.client.Expire(ctx, genKey, 2*c.userBookingsTTL).Err(); err != nil {
			return fmt.Errorf("failed to expire %s: %w", genKey, err)
		}
		keys = append(keys, UserBookingsKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to drop user bookings: %w", err)
	}
	return nil
}

func (c *redisCache) generation(ctx context.Context, genKey string) (int64, error) {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("cache generation %s: %w", genKey, err)
	}
	return gen, nil
}

// getCurrent loads key and its generation in one round trip. An entry written
// under an older generation is a miss.
func (c *redisCache) getCurrent(ctx context.Context, key, genKey string, dst interface{ generation() int64 }) (bool, error) {
	values, err := c.client.MGet(ctx, key, genKey).Result()
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	raw, ok := values[0].(string)
	if !ok {
		return false, nil
	}

	var current int64
	if s, ok := values[1].(string); ok {
		if current, err = strconv.ParseInt(s, 10, 64); err != nil {
			return false, fmt.Errorf("cache generation %s: %w", genKey, err)
		}
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return dst.generation() == current, nil
}

func (e *entry[T]) generation() int64 {
	return e.Gen
}

func (c *redisCache) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Noop is used when no cache is configured; every read misses.
type Noop struct{}

func (Noop) OpenSlotsGeneration(context.Context) (int64, error) { return 0, nil }

func (Noop) GetOpenSlots(context.Context) ([]*model.Slot, bool, error) { return nil, false, nil }

func (Noop) SetOpenSlots(context.Context, int64, []*model.Slot) error { return nil }

func (Noop) InvalidateOpenSlots(context.Context) error { return nil }

func (Noop) UserBookingsGeneration(context.Context, string) (int64, error) { return 0, nil }

func (Noop) GetUserBookings(context.Context, string) ([]*model.BookingWithSlot, bool, error) {
	return nil, false, nil
}

func (Noop) SetUserBookings(context.Context, string, int64, []*model.BookingWithSlot) error {
	return nil
}

func (Noop) InvalidateUserBookings(context.Context, ...string) error { return nil }
