// Package config loads the extractor configuration from an optional YAML
// file and EXTRACTOR_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dvloznov/statement-extractor/internal/domain"
	"github.com/dvloznov/statement-extractor/internal/extract"
)

// Config carries every knob of the extractor. Zero values never appear:
// Load fills defaults for anything the file and environment leave unset.
type Config struct {
	Currency         string `mapstructure:"currency"`
	OwnerName        string `mapstructure:"owner_name"`
	OwnerInstitute   string `mapstructure:"owner_institute"`
	PartnerName      string `mapstructure:"partner_name"`
	PartnerInstitute string `mapstructure:"partner_institute"`

	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`

	ModelFallback bool   `mapstructure:"model_fallback"`
	ModelName     string `mapstructure:"model_name"`

	GCPProject string `mapstructure:"gcp_project"`
	BQDataset  string `mapstructure:"bq_dataset"`
	BQTable    string `mapstructure:"bq_table"`
	GCSBucket  string `mapstructure:"gcs_bucket"`

	NotionToken    string `mapstructure:"notion_token"`
	NotionDatabase string `mapstructure:"notion_database"`

	// InboxDir is the directory the worker polls for new statements.
	InboxDir     string `mapstructure:"inbox_dir"`
	PollInterval int    `mapstructure:"poll_interval_seconds"`
}

// Load reads the configuration. The path may be empty, in which case only
// defaults and environment variables apply. Environment variables use the
// EXTRACTOR_ prefix, e.g. EXTRACTOR_MODEL_FALLBACK=true.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("currency", "EUR")
	v.SetDefault("owner_name", "UNKNOWN")
	v.SetDefault("owner_institute", "UNKNOWN")
	v.SetDefault("partner_name", "UNKNOWN")
	v.SetDefault("partner_institute", "UNKNOWN")
	v.SetDefault("workers", 4)
	v.SetDefault("queue_size", 64)
	v.SetDefault("model_fallback", false)
	v.SetDefault("model_name", extract.DefaultModelName)
	v.SetDefault("bq_dataset", "finance")
	v.SetDefault("bq_table", "transactions")
	v.SetDefault("inbox_dir", "inbox")
	v.SetDefault("poll_interval_seconds", 30)

	v.SetEnvPrefix("EXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

// ExtractOptions maps the configuration onto the extraction engines'
// options.
func (c Config) ExtractOptions() extract.Options {
	return extract.Options{
		Currency:         c.Currency,
		Owner:            domain.Party{Name: c.OwnerName, Institute: c.OwnerInstitute},
		PartnerName:      c.PartnerName,
		PartnerInstitute: c.PartnerInstitute,
	}
}
