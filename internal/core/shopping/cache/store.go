// Package cache 儲存已產生的購物清單，依請求指紋查詢
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"
)

// Store 快取後端介面，查無資料時回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// New 依設定建立快取後端，快取停用時回傳 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		return NewRedisStore(context.Background(), &cfg.Redis, cfg.Cache.TTL)
	case config.CacheBackendMemory, "":
		return NewManager(&cfg.Cache), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Fingerprint 計算資料的 SHA-256 指紋作為快取鍵
func Fingerprint(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
