package constants

import "time"

// viper keys
const (
	ConfigFolder = "CONFIG_FOLDER"
	StatePath    = "STATE_PATH"
	StreamsPath  = "STREAMS_PATH"
	StateDBPath  = "STATE_DB_PATH"
	MetricsPath  = "METRICS_PATH"
	LogLevel     = "LOG_LEVEL"
	NoSave       = "NO_SAVE"
	SyncID       = "SYNC_ID"
)

const (
	EnvPrefix     = "TAP_AMAZON_SP"
	StreamsFile   = "streams"
	StateFile     = "state"
	SpecFile      = "spec"
	JSONExtension = ".json"
	LogsFolder    = "logs"
)

// Remote source
const (
	RateLimitHeader    = "x-amzn-RateLimit-Limit"
	DefaultRateLimit   = 100.0
	MinRateLimit       = 0.1
	DefaultMarketplace = "US"
	DefaultGranularity = "HOUR"
	DefaultLookback    = time.Hour
	VendorWindow       = 7 * 24 * time.Hour
	DefaultUserAgent   = "tap-amazon-sp"
)

// Priority streams are synced before any other stream of the catalog
var PriorityStreams = []string{"orders", "order_items"}
