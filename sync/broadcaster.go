package sync

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/types"
)

// BroadcasterOptions configures a Broadcaster.
type BroadcasterOptions struct {
	// HostName identifies this instance in published notifications.
	HostName string

	// Namespace is the channel namespace. Empty falls back to DefaultNamespace.
	Namespace string

	// CacheChannel is the cache invalidation channel name. Empty falls back
	// to DefaultCacheChannel.
	CacheChannel string

	// ConfigChannel is the config change channel name. Empty falls back to
	// DefaultConfigChannel.
	ConfigChannel string

	// CacheEnabled enables cache invalidation broadcasting. When false,
	// PublishRemoval is a no-op.
	CacheEnabled bool

	// ConfigEnabled enables config change broadcasting. When false,
	// PublishConfigChange is a no-op.
	ConfigEnabled bool

	// PublishTimeout bounds each publish attempt. Zero defaults to 5s.
	PublishTimeout time.Duration

	// Marshaller serializes notifications. Nil defaults to JSON.
	Marshaller cache.Marshaller

	// Logger is the logger. Nil defaults to no-op.
	Logger cache.Logger

	// OnError is called with publish failures. Publishing is best-effort;
	// failures never reach the caller of a publish method.
	OnError func(error)
}

// Broadcaster publishes cache invalidation and config change notifications
// to Redis pub/sub. Publishing is fire-and-forget: each publish runs on a
// background goroutine with a bounded timeout and reports failures only
// through the OnError callback and the logger.
type Broadcaster struct {
	client *redis.Client
	opts   BroadcasterOptions
	wg     sync.WaitGroup
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(client *redis.Client, opts BroadcasterOptions) *Broadcaster {
	if opts.Marshaller == nil {
		opts.Marshaller = cache.NewJSONMarshaller()
	}
	if opts.Logger == nil {
		opts.Logger = cache.NewNoOpLogger()
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 5 * time.Second
	}
	return &Broadcaster{
		client: client,
		opts:   opts,
	}
}

// PublishRemoval announces that the given keys were removed locally. A no-op
// when cache broadcasting is disabled or the key set is empty.
func (b *Broadcaster) PublishRemoval(keys []string) {
	if !b.opts.CacheEnabled || len(keys) == 0 {
		return
	}

	notification := types.CacheNotification{
		HostName:  b.opts.HostName,
		CacheKeys: keys,
	}
	channel := ChannelName(b.opts.Namespace, b.opts.CacheChannel, DefaultCacheChannel)
	b.publish(channel, notification)
}

// PublishConfigChange announces that a configuration snapshot with the given
// checksum was persisted. A no-op when config broadcasting is disabled.
func (b *Broadcaster) PublishConfigChange(checksum string) {
	if !b.opts.ConfigEnabled {
		return
	}

	notification := types.ConfigNotification{
		HostName: b.opts.HostName,
		Checksum: checksum,
	}
	channel := ChannelName(b.opts.Namespace, b.opts.ConfigChannel, DefaultConfigChannel)
	b.publish(channel, notification)
}

func (b *Broadcaster) publish(channel string, notification any) {
	data, err := b.opts.Marshaller.Marshal(notification)
	if err != nil {
		b.reportError(err)
		b.opts.Logger.Error("publish: failed to serialize notification", "channel", channel, "error", err)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), b.opts.PublishTimeout)
		defer cancel()

		if err := b.client.Publish(ctx, channel, string(data)).Err(); err != nil {
			b.reportError(err)
			b.opts.Logger.Warn("publish: failed to publish notification", "channel", channel, "error", err)
			return
		}
		b.opts.Logger.Debug("publish: notification published", "channel", channel)
	}()
}

// Flush blocks until all in-flight publishes have completed.
func (b *Broadcaster) Flush() {
	b.wg.Wait()
}

func (b *Broadcaster) reportError(err error) {
	if b.opts.OnError != nil {
		b.opts.OnError(err)
	}
}
