package cache

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/sumup/rack-rpc/pkg/sets"
)

// ResultCache stores successful RPC results keyed on method plus a params
// fingerprint. Only configured methods participate; errors are never
// cached.
type ResultCache struct {
	cacher  Cacher
	methods *sets.StringSet
	ttl     time.Duration
}

func NewResultCache(cacher Cacher, methods []string, ttl time.Duration) *ResultCache {
	return &ResultCache{
		cacher:  cacher,
		methods: sets.NewStringSet(methods),
		ttl:     ttl,
	}
}

func (c *ResultCache) Cacheable(method string) bool {
	return c.methods.Contains(method)
}

// Lookup returns the stored raw result for the method and params, or nil on
// a miss.
func (c *ResultCache) Lookup(method string, params []byte) ([]byte, error) {
	if !c.Cacheable(method) {
		return nil, nil
	}
	return c.cacher.Get(resultCacheKey(method, params))
}

func (c *ResultCache) Store(method string, params []byte, result []byte) error {
	if !c.Cacheable(method) {
		return nil
	}
	return c.cacher.SetEx(resultCacheKey(method, params), result, c.ttl)
}

func resultCacheKey(method string, params []byte) string {
	return fmt.Sprintf("result:%s:%x", method, sha256.Sum256(params))
}
