package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bayidash/backend-go/internal/config"
	"github.com/bayidash/backend-go/internal/domain"
)

const (
	statsKey        = "dashboard:stats"
	defaultStatsTTL = time.Minute
)

// StatsCache holds the dashboard dealer counts between ingestion runs. A
// publish invalidates it; reads fall through to the database on miss.
type StatsCache interface {
	GetStats(ctx context.Context) (*domain.DashboardStats, bool, error)
	SetStats(ctx context.Context, stats *domain.DashboardStats) error
	Invalidate(ctx context.Context) error
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopStatsCache struct{}

func NewStatsCache(cfg config.CacheConfig) (StatsCache, error) {
	if !cfg.Enabled {
		return &noopStatsCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.StatsTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}

	return &redisStatsCache{client: client, ttl: ttl}, nil
}

func NewNoopStatsCache() StatsCache {
	return &noopStatsCache{}
}

func (c *redisStatsCache) GetStats(ctx context.Context) (*domain.DashboardStats, bool, error) {
	payload, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var stats domain.DashboardStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false, fmt.Errorf("decode stats cache: %w", err)
	}
	return &stats, true, nil
}

func (c *redisStatsCache) SetStats(ctx context.Context, stats *domain.DashboardStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats cache: %w", err)
	}
	if err := c.client.Set(ctx, statsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (n *noopStatsCache) GetStats(ctx context.Context) (*domain.DashboardStats, bool, error) {
	return nil, false, nil
}

func (n *noopStatsCache) SetStats(ctx context.Context, stats *domain.DashboardStats) error {
	return nil
}

func (n *noopStatsCache) Invalidate(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
