package constants

import "time"

var BotTiming = struct {
	ResponseDelay time.Duration
	DrainTimeout  time.Duration
}{
	ResponseDelay: 500 * time.Millisecond, // simulated typing before the bot reply
	DrainTimeout:  5 * time.Second,
}

var CacheTTL = struct {
	ProfileSnapshot time.Duration
}{
	ProfileSnapshot: 24 * time.Hour,
}

var CacheKeys = struct {
	ProfileSnapshot string
	StoredProjects  string
}{
	ProfileSnapshot: "portfolio:profile:%s",
	StoredProjects:  "portfolio:projects",
}

var WebSocketConfig = struct {
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}{
	WriteTimeout:   10 * time.Second,
	PongTimeout:    60 * time.Second,
	PingInterval:   54 * time.Second,
	MaxMessageSize: 4096,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var InputLimits = struct {
	MaxQueryLength int
	MaxBodyBytes   int64
}{
	MaxQueryLength: 500,
	MaxBodyBytes:   1 << 16,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var RefreshConfig = struct {
	MinInterval        time.Duration
	ListenerMinBackoff time.Duration
	ListenerMaxBackoff time.Duration
	LoadTimeout        time.Duration
}{
	MinInterval:        5 * time.Second,
	ListenerMinBackoff: 10 * time.Second,
	ListenerMaxBackoff: time.Minute,
	LoadTimeout:        10 * time.Second,
}
