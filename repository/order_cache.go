package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	radix "github.com/mediocregopher/radix/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/models"
)

const orderCacheKey = "order:%s"

// setIfNewer stores rev and body unless the entry already holds a higher rev.
var setIfNewer = radix.NewEvalScript(1, `
local cur = redis.call("HGET", KEYS[1], "rev")
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call("HSET", KEYS[1], "rev", ARGV[1], "body", ARGV[2])
redis.call("EXPIRE", KEYS[1], ARGV[3])
return 1
`)

// OrderCache keeps read-through copies of order documents. Set never
// replaces an entry holding a higher Order.Revision, so writers store the
// order they just wrote and a slow reader cannot put an older copy back.
type OrderCache interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, bool, error)
	Set(ctx context.Context, order *models.Order) error
	Invalidate(ctx context.Context, id primitive.ObjectID) error
}

type RedisOrderCache struct {
	redis radix.Client
	ttl   time.Duration
}

func NewRedisOrderCache(client radix.Client, ttl time.Duration) *RedisOrderCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisOrderCache{redis: client, ttl: ttl}
}

// DialRedis opens a small connection pool.
func DialRedis(addr string) (radix.Client, error) {
	pool, err := radix.NewPool("tcp", addr, 10)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return pool, nil
}

func (c *RedisOrderCache) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, bool, error) {
	key := fmt.Sprintf(orderCacheKey, id.Hex())

	var raw string
	mn := radix.MaybeNil{Rcv: &raw}
	if err := c.redis.Do(radix.Cmd(&mn, "HGET", key, "body")); err != nil {
		return nil, false, err
	}
	if mn.Nil {
		return nil, false, nil
	}

	var order models.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		// corrupt entry, drop it and fall back to the database
		_ = c.redis.Do(radix.Cmd(nil, "DEL", key))
		return nil, false, nil
	}
	// SellerIDs is not serialised to JSON
	order.SellerIDs = models.CollectSellerIDs(order.Items)
	return &order, true, nil
}

func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(orderCacheKey, order.ID.Hex())
	return c.redis.Do(setIfNewer.Cmd(nil,
		key,
		strconv.FormatInt(order.Revision(), 10),
		string(body),
		strconv.FormatInt(int64(c.ttl/time.Second), 10),
	))
}

func (c *RedisOrderCache) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	return c.redis.Do(radix.Cmd(nil, "DEL", fmt.Sprintf(orderCacheKey, id.Hex())))
}

// NopOrderCache is used when no Redis address is configured.
type NopOrderCache struct{}

func (NopOrderCache) Get(context.Context, primitive.ObjectID) (*models.Order, bool, error) {
	return nil, false, nil
}

func (NopOrderCache) Set(context.Context, *models.Order) error { return nil }

func (NopOrderCache) Invalidate(context.Context, primitive.ObjectID) error { return nil }
