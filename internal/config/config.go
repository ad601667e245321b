package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Audit       AuditConfig       `mapstructure:"audit"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Attestation AttestationConfig `mapstructure:"attestation"`
	Risk        RiskConfig        `mapstructure:"risk"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	ReadOnly bool   `mapstructure:"read_only"`
}

type DatabaseConfig struct {
	DSN                    string `mapstructure:"dsn"`
	AuditRetentionDays     int    `mapstructure:"audit_retention_days"`
	CleanupIntervalMinutes int    `mapstructure:"cleanup_interval_minutes"`
}

type RedisConfig struct {
	Addr                  string `mapstructure:"addr"`
	Password              string `mapstructure:"password"`
	DB                    int    `mapstructure:"db"`
	IdempotencyTTLSeconds int    `mapstructure:"idempotency_ttl_seconds"`
	LatestTTLSeconds      int    `mapstructure:"latest_ttl_seconds"`
	AuditListKey          string `mapstructure:"audit_list_key"`
	AuditListMax          int    `mapstructure:"audit_list_max"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type AuditConfig struct {
	LogDir     string `mapstructure:"log_dir"`
	BufferSize int    `mapstructure:"buffer_size"`
}

type RateLimitConfig struct {
	QPS   float64 `mapstructure:"qps"`
	Burst int     `mapstructure:"burst"`
}

type AttestationConfig struct {
	// Hex private key used to sign assessment attestations. Empty disables signing.
	PrivateKey string `mapstructure:"private_key"`
	ChainID    int64  `mapstructure:"chain_id"`
}

type RiskConfig struct {
	Weights       map[string]float64 `mapstructure:"weights"`
	Thresholds    ThresholdConfig    `mapstructure:"thresholds"`
	MissingData   string             `mapstructure:"missing_data"` // penalize | neutral
	Jurisdictions struct {
		Low    []string `mapstructure:"low"`
		Medium []string `mapstructure:"medium"`
	} `mapstructure:"jurisdictions"`
}

type ThresholdConfig struct {
	Low    float64 `mapstructure:"low"`
	Medium float64 `mapstructure:"medium"`
	High   float64 `mapstructure:"high"`
}

// Policy converts the risk section into a scoring policy. Missing pieces fall
// back to the defaults.
func (c RiskConfig) Policy() (risk.Policy, error) {
	policy := risk.DefaultPolicy()
	if len(c.Weights) > 0 {
		weights := make(risk.Weights, len(c.Weights))
		for name, w := range c.Weights {
			weights[model.Category(strings.ToLower(name))] = w
		}
		policy.Weights = weights
	}
	if c.Thresholds != (ThresholdConfig{}) {
		policy.Thresholds = risk.Thresholds{
			Low:    c.Thresholds.Low,
			Medium: c.Thresholds.Medium,
			High:   c.Thresholds.High,
		}
	}
	if c.MissingData != "" {
		policy.MissingData = risk.MissingDataPolicy(strings.ToLower(c.MissingData))
	}
	if len(c.Jurisdictions.Low) > 0 {
		policy.Jurisdictions.Low = c.Jurisdictions.Low
	}
	if len(c.Jurisdictions.Medium) > 0 {
		policy.Jurisdictions.Medium = c.Jurisdictions.Medium
	}
	if err := policy.Validate(); err != nil {
		return risk.Policy{}, fmt.Errorf("invalid risk config: %w", err)
	}
	return policy, nil
}

// Load reads config.yaml from . or ./configs, overlaid with RISKGATE_* env vars.
func Load() (*Config, error) {
	return LoadFrom(viper.New(), "")
}

// LoadFrom reads from an explicit file when path is set.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// e.g. RISKGATE_DATABASE_DSN
	v.SetEnvPrefix("riskgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found, using defaults and env vars")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_only", false)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.audit_retention_days", 30)
	v.SetDefault("database.cleanup_interval_minutes", 60)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.idempotency_ttl_seconds", 86400)
	v.SetDefault("redis.latest_ttl_seconds", 7*86400)
	v.SetDefault("redis.audit_list_key", "riskgate:audit_logs")
	v.SetDefault("redis.audit_list_max", 10000)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("audit.log_dir", "./logs")
	v.SetDefault("audit.buffer_size", 1000)
	v.SetDefault("rate_limit.qps", 20)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("attestation.private_key", "")
	v.SetDefault("attestation.chain_id", 1)
	v.SetDefault("risk.missing_data", string(risk.MissingDataPenalize))
}
