package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TTLs holds how long settled results stay in the dedup cache, per entity
type TTLs struct {
	Topics     time.Duration
	Replies    time.Duration
	Tags       time.Duration
	Categories time.Duration
	Users      time.Duration
	Analytics  time.Duration
}

// Settings is an immutable snapshot of the values the client is wired from
type Settings struct {
	BaseURL       string
	Timeout       time.Duration
	SpaceID       string
	APIKey        string
	Endpoints     map[string]string
	TTL           TTLs
	RedisURL      string
	SnapshotTTL   time.Duration
	Offline       bool
	DefaultRoleID int
}

// Load reads the current configuration into a Settings value. Init must
// have been called first.
func Load() Settings {
	endpoints := make(map[string]string)
	for action, url := range viper.GetStringMapString("api.endpoints") {
		endpoints[action] = url
	}

	return Settings{
		BaseURL:   strings.TrimRight(viper.GetString("api.base_url"), "/"),
		Timeout:   time.Duration(viper.GetInt("api.timeout")) * time.Second,
		SpaceID:   viper.GetString("api.space_id"),
		APIKey:    viper.GetString("api.api_key"),
		Endpoints: endpoints,
		TTL: TTLs{
			Topics:     viper.GetDuration("cache.ttl.topics"),
			Replies:    viper.GetDuration("cache.ttl.replies"),
			Tags:       viper.GetDuration("cache.ttl.tags"),
			Categories: viper.GetDuration("cache.ttl.categories"),
			Users:      viper.GetDuration("cache.ttl.users"),
			Analytics:  viper.GetDuration("cache.ttl.analytics"),
		},
		RedisURL:      viper.GetString("cache.redis_url"),
		SnapshotTTL:   viper.GetDuration("cache.snapshot_ttl"),
		Offline:       viper.GetBool("fallback.offline"),
		DefaultRoleID: viper.GetInt("users.default_role_id"),
	}
}

// EndpointFor returns the URL an action is posted to: an explicit
// api.endpoints entry, or the base URL joined with the action name.
func (s Settings) EndpointFor(action string) string {
	// viper lowercases map keys
	if url, ok := s.Endpoints[strings.ToLower(action)]; ok && url != "" {
		return url
	}
	if url, ok := s.Endpoints[action]; ok && url != "" {
		return url
	}
	return s.BaseURL + "/" + action
}
