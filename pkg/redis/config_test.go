package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Alijeyrad/telecare_backend/config"
)

func TestFromCentralConfigFillsDefaults(t *testing.T) {
	cfg := FromCentralConfig(config.RedisConfig{Addr: "cache:6379", PoolSize: 32})

	assert.Equal(t, "cache:6379", cfg.Addr)
	assert.Equal(t, 32, cfg.PoolSize)
	assert.Equal(t, 2, cfg.MinIdleConns)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout())
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout())
}

func TestJSONStoreKey(t *testing.T) {
	s := NewJSONStore[struct{}](nil, "quiz:session:", time.Minute)
	assert.Equal(t, "quiz:session:abc", s.Key("abc"))
}
