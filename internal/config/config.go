package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Callback    CallbackConfig    `yaml:"callback"`
	Indexer     IndexerConfig     `yaml:"indexer"`
	Search      SearchConfig      `yaml:"search"`
	Outbox      OutboxConfig      `yaml:"outbox"`
	Kafka       KafkaConfig       `yaml:"kafka"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"4452"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
}

// AuthConfig holds the settings used to verify inbound identity tokens.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"idam"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// DefinitionsConfig points at the case-type definition file.
type DefinitionsConfig struct {
	Path string `yaml:"path" env:"DEFINITIONS_PATH" env-default:"./definitions.yaml"`
}

// CallbackConfig holds callback webhook settings.
type CallbackConfig struct {
	Timeout            time.Duration `yaml:"timeout"              env:"CALLBACK_TIMEOUT"              env-default:"30s"`
	SubmittedRetries   int           `yaml:"submitted_retries"    env:"CALLBACK_SUBMITTED_RETRIES"    env-default:"1"`
	SubmittedBaseDelay time.Duration `yaml:"submitted_base_delay" env:"CALLBACK_SUBMITTED_BASE_DELAY" env-default:"500ms"`
}

// IndexerConfig holds search indexer loop settings.
type IndexerConfig struct {
	Enabled      bool          `yaml:"enabled"       env:"INDEXER_ENABLED"       env-default:"true"`
	BatchSize    uint64        `yaml:"batch_size"    env:"INDEXER_BATCH_SIZE"    env-default:"2000"`
	PollInterval time.Duration `yaml:"poll_interval" env:"INDEXER_POLL_INTERVAL" env-default:"250ms"`
}

// SearchConfig holds Elasticsearch connection settings.
type SearchConfig struct {
	AddressesRaw string `yaml:"addresses" env:"ELASTIC_SEARCH_HOSTS" env-default:"http://localhost:9200"`
	Username     string `yaml:"username"  env:"ELASTIC_SEARCH_USERNAME"`
	Password     string `yaml:"password"  env:"ELASTIC_SEARCH_PASSWORD"`
}

// Addresses returns the comma-separated AddressesRaw as a slice.
func (c SearchConfig) Addresses() []string {
	return splitList(c.AddressesRaw)
}

// OutboxConfig holds outbox relay settings.
type OutboxConfig struct {
	RelayEnabled bool          `yaml:"relay_enabled" env:"OUTBOX_RELAY_ENABLED" env-default:"false"`
	BatchSize    uint64        `yaml:"batch_size"    env:"OUTBOX_BATCH_SIZE"    env-default:"100"`
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL" env-default:"1s"`
}

// KafkaConfig holds broker settings for the outbox relay.
type KafkaConfig struct {
	BrokersRaw string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic      string `yaml:"topic"   env:"KAFKA_TOPIC"   env-default:"ccd-case-events"`
}

// Brokers returns the comma-separated BrokersRaw as a slice.
func (c KafkaConfig) Brokers() []string {
	return splitList(c.BrokersRaw)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
