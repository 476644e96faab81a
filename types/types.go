package types

// CacheNotification announces keys that one instance removed from its local
// cache so that peer instances can evict the same keys.
type CacheNotification struct {
	HostName  string   `json:"HostName"`
	CacheKeys []string `json:"CacheKeys"`
}

// ConfigNotification announces that a configuration snapshot was persisted.
// Peers compare the checksum against their own and re-pull when it differs.
type ConfigNotification struct {
	HostName string `json:"HostName"`
	Checksum string `json:"Checksum"`
}
