package redis

import "time"

// Config holds the connection settings. An empty URL disables Redis.
type Config struct {
	URL             string        `env:"REDIS_URL"`
	KeyPrefix       string        `env:"REDIS_KEY_PREFIX" envDefault:"tmsmail:"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	DialTimeout     time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ConnectAttempts int           `env:"REDIS_CONNECT_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}

// Enabled reports whether a Redis URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
