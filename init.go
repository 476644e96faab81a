package cacheadmin

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/huykn/cache-admin/admin"
	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/storage"
	cachesync "github.com/huykn/cache-admin/sync"
)

// Local cache policies.
const (
	PolicyLRU = "lru"
	PolicyLFU = "lfu"
)

// Config configures a cache-admin system.
type Config struct {
	// HostName identifies this instance in notifications. If empty, the OS
	// host name is used, falling back to a generated ID.
	HostName string

	// LocalCachePolicy selects the local cache implementation,
	// "lru" or "lfu".
	LocalCachePolicy string

	// LocalCacheConfig configures the local cache.
	LocalCacheConfig LocalCacheConfig

	// LocalCacheFactory overrides the local cache construction.
	// If nil, derived from LocalCachePolicy.
	LocalCacheFactory KeyedCacheFactory

	// RedisAddr is the Redis server address (e.g., "localhost:6379").
	// Required when any broadcast feature is enabled.
	RedisAddr string

	// RedisPassword is the optional Redis password.
	RedisPassword string

	// RedisDB is the Redis database number.
	RedisDB int

	// Namespace is the pub/sub channel namespace shared by all channels.
	Namespace string

	// CacheChannel is the cache invalidation channel name.
	CacheChannel string

	// ConfigChannel is the config change channel name.
	ConfigChannel string

	// CacheManagementEnabled enables cross-instance invalidation: removals
	// are broadcast and peer notifications are applied locally. When false,
	// removals stay local and nothing is published or consumed.
	CacheManagementEnabled bool

	// ConfigManagementEnabled enables the config change channel.
	ConfigManagementEnabled bool

	// OnConfigChange is called for peer config change notifications.
	OnConfigChange func(notification ConfigNotification)

	// Marshaller is the wire serializer. If nil, defaults to JSON.
	Marshaller Marshaller

	// Logger is the logger. If nil, defaults to no-op.
	Logger Logger

	// AuditLogger records administrative actions. If nil, defaults to a
	// log-backed auditor.
	AuditLogger AuditLogger

	// ContextTimeout is the default timeout for pub/sub operations.
	ContextTimeout time.Duration

	// OnError is called when an error occurs in background operations.
	OnError func(error)
}

// DefaultConfig returns default system configuration.
func DefaultConfig() Config {
	return Config{
		LocalCachePolicy: PolicyLRU,
		LocalCacheConfig: DefaultLocalCacheConfig(),
		RedisAddr:        "localhost:6379",
		RedisDB:          0,
		Namespace:        cachesync.DefaultNamespace,
		CacheChannel:     cachesync.DefaultCacheChannel,
		ConfigChannel:    cachesync.DefaultConfigChannel,
		ContextTimeout:   5 * time.Second,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.LocalCachePolicy != PolicyLRU && c.LocalCachePolicy != PolicyLFU {
		return ErrInvalidConfig
	}
	if err := c.LocalCacheConfig.Validate(); err != nil {
		return err
	}
	if (c.CacheManagementEnabled || c.ConfigManagementEnabled) && c.RedisAddr == "" {
		return ErrInvalidConfig
	}
	return nil
}

// System is an assembled cache-admin instance: the local store, the
// management service, the invalidation broadcaster and the peer subscriber.
type System struct {
	// Store is the process-wide local cache.
	Store KeyedCache

	// Service implements the management operations.
	Service *admin.Service

	// Broadcaster publishes invalidation and config notifications.
	Broadcaster *cachesync.Broadcaster

	// Subscriber applies peer notifications. Nil when cache management
	// broadcasting is disabled.
	Subscriber *cachesync.Subscriber

	redis  *redis.Client
	closed int32
}

// New creates a new cache-admin system from the configuration. The pub/sub
// subscriber is started when cache management broadcasting is enabled.
func New(ctx context.Context, cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.HostName == "" {
		cfg.HostName = resolveHostName()
	}
	if cfg.Marshaller == nil {
		cfg.Marshaller = cache.NewJSONMarshaller()
	}
	if cfg.Logger == nil {
		cfg.Logger = cache.NewNoOpLogger()
	}
	if cfg.LocalCacheFactory == nil {
		switch cfg.LocalCachePolicy {
		case PolicyLFU:
			cfg.LocalCacheFactory = cache.NewLFUCacheFactory(cfg.LocalCacheConfig)
		default:
			cfg.LocalCacheFactory = cache.NewLRUCacheFactory(cfg.LocalCacheConfig.MaxSize)
		}
	}

	store, err := cfg.LocalCacheFactory.Create()
	if err != nil {
		return nil, err
	}

	sys := &System{Store: store}

	var client *redis.Client
	if cfg.CacheManagementEnabled || cfg.ConfigManagementEnabled {
		client, err = storage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			store.Close()
			return nil, err
		}
		sys.redis = client
	}

	sys.Broadcaster = cachesync.NewBroadcaster(client, cachesync.BroadcasterOptions{
		HostName:       cfg.HostName,
		Namespace:      cfg.Namespace,
		CacheChannel:   cfg.CacheChannel,
		ConfigChannel:  cfg.ConfigChannel,
		CacheEnabled:   cfg.CacheManagementEnabled,
		ConfigEnabled:  cfg.ConfigManagementEnabled,
		PublishTimeout: cfg.ContextTimeout,
		Marshaller:     cfg.Marshaller,
		Logger:         cfg.Logger,
		OnError:        cfg.OnError,
	})

	if cfg.CacheManagementEnabled || cfg.ConfigManagementEnabled {
		sys.Subscriber = cachesync.NewSubscriber(client, store, cachesync.SubscriberOptions{
			HostName:       cfg.HostName,
			Namespace:      cfg.Namespace,
			CacheChannel:   cfg.CacheChannel,
			ConfigChannel:  cfg.ConfigChannel,
			CacheEnabled:   cfg.CacheManagementEnabled,
			ConfigEnabled:  cfg.ConfigManagementEnabled,
			OnConfigChange: cfg.OnConfigChange,
			Marshaller:     cfg.Marshaller,
			Logger:         cfg.Logger,
		})
		if err := sys.Subscriber.Subscribe(ctx); err != nil {
			sys.Close()
			return nil, err
		}
	}

	sys.Service = admin.NewService(store, sys.Broadcaster, cfg.AuditLogger, cfg.Logger)

	return sys, nil
}

// Close tears the system down: stops the subscriber, waits for in-flight
// publishes, closes the Redis connection and the local store.
func (s *System) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	var errs []error

	if s.Subscriber != nil {
		if err := s.Subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.Broadcaster != nil {
		s.Broadcaster.Flush()
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	s.Store.Close()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// resolveHostName returns the OS host name, or a generated ID when it is
// unavailable.
func resolveHostName() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "cache-admin-" + uuid.NewString()
}
