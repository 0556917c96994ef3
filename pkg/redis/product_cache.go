package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	rd "github.com/redis/go-redis/v9"

	"nuvyra_admin/internal/model"
)

// ProductCache 商品列表/详情的读穿缓存。
// 列表和详情都按版本号失效（INCR）。回填必须带上读缓存时拿到的版本，
// 这样写库之前读到的旧数据只会落在已经失效的版本下。
type ProductCache struct {
	rdb *rd.Client
	ttl time.Duration
}

func NewProductCache(rdb *rd.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

// Fingerprint 把查询参数压缩为稳定的 key 片段。
func Fingerprint(query string) string {
	sum := sha1.Sum([]byte(query))
	return hex.EncodeToString(sum[:])
}

func (c *ProductCache) version(ctx context.Context, key string) (int64, error) {
	v, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, rd.Nil) {
		return 0, nil
	}
	return v, err
}

// get 命中时把缓存内容解码到 dst；数据损坏当作未命中。
func (c *ProductCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, rd.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *ProductCache) set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// GetList 返回当前列表版本；命中时把缓存内容解码到 dst。
// 未命中时调用方查库后用同一个 version 调 SetList。
func (c *ProductCache) GetList(ctx context.Context, fingerprint string, dst any) (int64, bool, error) {
	version, err := c.version(ctx, ProductListVersionKey())
	if err != nil {
		return 0, false, err
	}
	ok, err := c.get(ctx, ProductListKey(version, fingerprint), dst)
	return version, ok, err
}

func (c *ProductCache) SetList(ctx context.Context, version int64, fingerprint string, value any) error {
	return c.set(ctx, ProductListKey(version, fingerprint), value)
}

// GetProduct 返回该商品的当前详情版本和缓存内容。
func (c *ProductCache) GetProduct(ctx context.Context, id string) (*model.Product, int64, bool, error) {
	version, err := c.version(ctx, ProductDetailVersionKey(id))
	if err != nil {
		return nil, 0, false, err
	}
	var p model.Product
	ok, err := c.get(ctx, ProductDetailKey(id, version), &p)
	if !ok || err != nil {
		return nil, version, false, err
	}
	return &p, version, true, nil
}

func (c *ProductCache) SetProduct(ctx context.Context, version int64, p *model.Product) error {
	return c.set(ctx, ProductDetailKey(p.ID, version), p)
}

// InvalidateList 让所有已缓存的列表（含分类列表）失效。
func (c *ProductCache) InvalidateList(ctx context.Context) error {
	return c.rdb.Incr(ctx, ProductListVersionKey()).Err()
}

// InvalidateProducts 推进指定商品的详情版本，旧版本 key 自然过期。
func (c *ProductCache) InvalidateProducts(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := c.rdb.Pipeline()
	for _, id := range ids {
		pipe.Incr(ctx, ProductDetailVersionKey(id))
	}
	_, err := pipe.Exec(ctx)
	return err
}
