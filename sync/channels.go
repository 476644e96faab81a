package sync

// Default channel naming. Both namespace and channel fall back to fixed
// literals so multiple deployments can share one Redis without cross-talk,
// while an unconfigured deployment still works.
const (
	DefaultNamespace     = "cache-admin"
	DefaultCacheChannel  = "cache-management"
	DefaultConfigChannel = "config-management"
)

// ChannelName builds the full pub/sub channel name "{namespace}/{channel}",
// substituting defaults for empty parts.
func ChannelName(namespace, channel, defaultChannel string) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if channel == "" {
		channel = defaultChannel
	}
	return namespace + "/" + channel
}
