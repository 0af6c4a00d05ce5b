package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plateshare/plateshare/internal/model"
)

const (
	// identityCachePrefix is the Redis key prefix for verified identities.
	identityCachePrefix = "auth:identity:"
	// identityCacheTTL bounds how long a verified identity is reused
	// without re-verifying the token.
	identityCacheTTL = 5 * time.Minute
)

// identityKey builds the Redis key for a token digest.
func identityKey(digest string) string {
	return identityCachePrefix + digest
}

// GetIdentity retrieves a cached verified identity by token digest.
// Returns nil on a cache miss; a corrupted entry is treated as a miss.
func (c *Cache) GetIdentity(ctx context.Context, digest string) (*model.Identity, error) {
	data, err := c.client.Get(ctx, identityKey(digest)).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var id model.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, nil //nolint:nilerr
	}
	if id.Email == "" {
		return nil, nil
	}

	return &id, nil
}

// SetIdentity caches a verified identity under the token digest.
func (c *Cache) SetIdentity(ctx context.Context, digest string, id *model.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	return c.client.Set(ctx, identityKey(digest), data, identityCacheTTL).Err()
}

// DeleteIdentity removes a cached identity. Used when a token is known to
// be revoked before its cache entry expires.
func (c *Cache) DeleteIdentity(ctx context.Context, digest string) error {
	return c.client.Del(ctx, identityKey(digest)).Err()
}
