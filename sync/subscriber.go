package sync

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/huykn/cache-admin/cache"
	"github.com/huykn/cache-admin/types"
)

// SubscriberOptions configures a Subscriber.
type SubscriberOptions struct {
	// HostName identifies this instance. Notifications originating from the
	// same host are skipped.
	HostName string

	// Namespace is the channel namespace. Empty falls back to DefaultNamespace.
	Namespace string

	// CacheChannel is the cache invalidation channel name. Empty falls back
	// to DefaultCacheChannel.
	CacheChannel string

	// ConfigChannel is the config change channel name. Empty falls back to
	// DefaultConfigChannel.
	ConfigChannel string

	// CacheEnabled subscribes to the cache invalidation channel.
	CacheEnabled bool

	// ConfigEnabled subscribes to the config change channel.
	ConfigEnabled bool

	// OnConfigChange is called for config change notifications from peers.
	OnConfigChange func(notification types.ConfigNotification)

	// Marshaller deserializes notifications. Nil defaults to JSON.
	Marshaller cache.Marshaller

	// Logger is the logger. Nil defaults to no-op.
	Logger cache.Logger
}

// Subscriber listens for invalidation notifications from peer instances and
// evicts the announced keys from the local cache. It runs one background
// listener for the lifetime of the process.
type Subscriber struct {
	client        *redis.Client
	store         cache.KeyedCache
	opts          SubscriberOptions
	cacheChannel  string
	configChannel string
	pubsub        *redis.PubSub
	done          chan struct{}
	closeOnce     sync.Once
	wg            sync.WaitGroup
	invalidations int64
}

// NewSubscriber creates a new Subscriber evicting from the given store.
func NewSubscriber(client *redis.Client, store cache.KeyedCache, opts SubscriberOptions) *Subscriber {
	if opts.Marshaller == nil {
		opts.Marshaller = cache.NewJSONMarshaller()
	}
	if opts.Logger == nil {
		opts.Logger = cache.NewNoOpLogger()
	}
	return &Subscriber{
		client:        client,
		store:         store,
		opts:          opts,
		cacheChannel:  ChannelName(opts.Namespace, opts.CacheChannel, DefaultCacheChannel),
		configChannel: ChannelName(opts.Namespace, opts.ConfigChannel, DefaultConfigChannel),
		done:          make(chan struct{}),
	}
}

// Subscribe starts listening for notifications.
func (s *Subscriber) Subscribe(ctx context.Context) error {
	var channels []string
	if s.opts.CacheEnabled {
		channels = append(channels, s.cacheChannel)
	}
	if s.opts.ConfigEnabled {
		channels = append(channels, s.configChannel)
	}
	s.pubsub = s.client.Subscribe(ctx, channels...)

	s.wg.Add(1)
	go s.listen()

	return nil
}

// Invalidations returns the number of keys evicted on behalf of peers.
func (s *Subscriber) Invalidations() int64 {
	return atomic.LoadInt64(&s.invalidations)
}

// Close stops the listener. Safe to call more than once.
func (s *Subscriber) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()

		if s.pubsub != nil {
			err = s.pubsub.Close()
		}
	})
	return err
}

// listen consumes notifications until Close.
func (s *Subscriber) listen() {
	defer s.wg.Done()

	if s.pubsub == nil {
		return
	}

	ch := s.pubsub.Channel()

	for {
		select {
		case <-s.done:
			return
		case msg := <-ch:
			if msg == nil {
				return
			}
			s.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (s *Subscriber) dispatch(channel string, payload []byte) {
	switch channel {
	case s.cacheChannel:
		var notification types.CacheNotification
		if err := s.opts.Marshaller.Unmarshal(payload, &notification); err != nil {
			s.opts.Logger.Warn("subscriber: malformed cache notification", "error", err)
			return
		}
		s.HandleCacheNotification(notification)

	case s.configChannel:
		var notification types.ConfigNotification
		if err := s.opts.Marshaller.Unmarshal(payload, &notification); err != nil {
			s.opts.Logger.Warn("subscriber: malformed config notification", "error", err)
			return
		}
		s.HandleConfigNotification(notification)
	}
}

// HandleCacheNotification evicts the announced keys from the local store and
// returns the keys that were actually resident. Notifications from this host
// are skipped; the local removal already happened. Removal is idempotent, so
// duplicate or out-of-order delivery is harmless.
func (s *Subscriber) HandleCacheNotification(notification types.CacheNotification) []string {
	if notification.HostName == s.opts.HostName {
		s.opts.Logger.Debug("subscriber: skipping own notification", "host", notification.HostName)
		return nil
	}

	removed := s.store.Remove(notification.CacheKeys)
	if len(removed) > 0 {
		atomic.AddInt64(&s.invalidations, int64(len(removed)))
	}
	s.opts.Logger.Info("subscriber: evicted keys for peer",
		"host", notification.HostName, "announced", len(notification.CacheKeys), "evicted", len(removed))
	return removed
}

// HandleConfigNotification forwards a peer config change to the registered
// callback, skipping notifications from this host.
func (s *Subscriber) HandleConfigNotification(notification types.ConfigNotification) {
	if notification.HostName == s.opts.HostName {
		return
	}
	if s.opts.OnConfigChange != nil {
		s.opts.OnConfigChange(notification)
	}
}
