//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config flag is given. A missing default
// file is not an error, env vars can carry the whole configuration.
const DefaultConfigFile = "./migrator.yaml"

const (
	BackendS3         = "s3"
	BackendGCS        = "gcs"
	BackendAzure      = "azure"
	BackendFilesystem = "filesystem"

	CorruptLedgerSkip  = "skip"
	CorruptLedgerAbort = "abort"

	DefaultLedgerSuffix = ".ledger"
	DefaultLockSuffix   = ".lock"
)

// Config is the complete migrator configuration.
type Config struct {
	Source      Source      `json:"source" yaml:"source"`
	Destination Destination `json:"destination" yaml:"destination"`
	Migration   Migration   `json:"migration" yaml:"migration"`
	Monitoring  Monitoring  `json:"monitoring" yaml:"monitoring"`
}

type Source struct {
	Backend string `json:"backend" yaml:"backend"`
	Bucket  string `json:"bucket" yaml:"bucket"`
	Prefix  string `json:"prefix" yaml:"prefix"`

	// optional doublestar patterns matched against full keys
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`

	Endpoint string `json:"endpoint" yaml:"endpoint"`
	UseSSL   bool   `json:"use_ssl" yaml:"use_ssl"`
	Path     string `json:"path" yaml:"path"`

	// fetches per second, 0 disables the limiter
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
	Burst     int     `json:"burst" yaml:"burst"`
}

type Destination struct {
	Backend          string        `json:"backend" yaml:"backend"`
	Container        string        `json:"container" yaml:"container"`
	DataObject       string        `json:"data_object" yaml:"data_object"`
	LedgerObject     string        `json:"ledger_object" yaml:"ledger_object"`
	ConnectionString string        `json:"connection_string" yaml:"connection_string"`
	Path             string        `json:"path" yaml:"path"`
	Lock             bool          `json:"lock" yaml:"lock"`
	LockTTL          time.Duration `json:"lock_ttl" yaml:"lock_ttl"`
}

// LedgerObjectName defaults to the data object name plus ".ledger".
func (d Destination) LedgerObjectName() string {
	if d.LedgerObject != "" {
		return d.LedgerObject
	}
	return d.DataObject + DefaultLedgerSuffix
}

func (d Destination) LockObjectName() string {
	return d.DataObject + DefaultLockSuffix
}

type Migration struct {
	RecordTimeout       time.Duration `json:"record_timeout" yaml:"record_timeout"`
	MaxRetries          int           `json:"max_retries" yaml:"max_retries"`
	InitialBackoff      time.Duration `json:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff          time.Duration `json:"max_backoff" yaml:"max_backoff"`
	CorruptLedgerPolicy string        `json:"corrupt_ledger_policy" yaml:"corrupt_ledger_policy"`
}

type Monitoring struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Port    int  `json:"port" yaml:"port"`
}

// Default returns a Config with every optional value filled in.
func Default() Config {
	return Config{
		Destination: Destination{
			LockTTL: 60 * time.Second,
		},
		Migration: Migration{
			RecordTimeout:       30 * time.Second,
			MaxRetries:          5,
			InitialBackoff:      200 * time.Millisecond,
			MaxBackoff:          5 * time.Second,
			CorruptLedgerPolicy: CorruptLedgerSkip,
		},
		Monitoring: Monitoring{
			Port: 2112,
		},
	}
}

// Load builds the configuration. The load order is:
// 1. Defaults
// 2. Config file
// 3. Environment variables
// Later sources override earlier ones. Command line flags are applied by the
// caller on the returned value.
func Load(configFileName string, logger logrus.FieldLogger) (Config, error) {
	config := Default()

	explicit := configFileName != ""
	if !explicit {
		configFileName = DefaultConfigFile
	}

	file, err := os.ReadFile(configFileName)
	if err != nil && (explicit || !os.IsNotExist(err)) {
		return config, errors.Wrapf(err, "read config file %q", configFileName)
	}

	if len(file) > 0 {
		logger.WithField("action", "config_load").
			WithField("config_file_path", configFileName).
			Debug("loading config file")
		if err := parseConfigFile(file, configFileName, &config); err != nil {
			return config, configErr(err)
		}
	}

	if err := FromEnv(&config); err != nil {
		return config, configErr(err)
	}

	return config, nil
}

func parseConfigFile(file []byte, name string, config *Config) error {
	m := regexp.MustCompile(`.*\.(\w+)$`).FindStringSubmatch(name)
	if len(m) < 2 {
		return fmt.Errorf("config file does not have a file ending, got '%s'", name)
	}

	switch m[1] {
	case "json":
		if err := json.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(file, config); err != nil {
			return fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension '%s', use .yaml or .json", m[1])
	}

	return nil
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	result = multierror.Append(result, c.Source.validate())
	result = multierror.Append(result, c.Destination.validate())
	result = multierror.Append(result, c.Migration.validate())

	if c.Monitoring.Enabled && (c.Monitoring.Port <= 0 || c.Monitoring.Port > 65535) {
		result = multierror.Append(result,
			fmt.Errorf("monitoring.port must be between 1 and 65535, got %d", c.Monitoring.Port))
	}

	if err := result.ErrorOrNil(); err != nil {
		return configErr(err)
	}
	return nil
}

func (s Source) validate() error {
	var result *multierror.Error

	switch s.Backend {
	case BackendS3, BackendGCS:
		if s.Bucket == "" {
			result = multierror.Append(result, fmt.Errorf("source.bucket is required for backend %q", s.Backend))
		}
	case BackendFilesystem:
		if s.Path == "" {
			result = multierror.Append(result, fmt.Errorf("source.path is required for backend %q", s.Backend))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("source.backend must be one of %q, %q, %q, got %q",
			BackendS3, BackendGCS, BackendFilesystem, s.Backend))
	}

	if s.RateLimit < 0 {
		result = multierror.Append(result, fmt.Errorf("source.rate_limit must not be negative"))
	}

	return result.ErrorOrNil()
}

func (d Destination) validate() error {
	var result *multierror.Error

	switch d.Backend {
	case BackendAzure:
		if d.ConnectionString == "" {
			result = multierror.Append(result, fmt.Errorf("destination.connection_string is required for backend %q", d.Backend))
		}
		if d.Container == "" {
			result = multierror.Append(result, fmt.Errorf("destination.container is required for backend %q", d.Backend))
		}
		if d.Lock && (d.LockTTL < 15*time.Second || d.LockTTL > 60*time.Second) {
			result = multierror.Append(result, fmt.Errorf("destination.lock_ttl must be between 15s and 60s for backend %q", d.Backend))
		}
	case BackendFilesystem:
		if d.Path == "" {
			result = multierror.Append(result, fmt.Errorf("destination.path is required for backend %q", d.Backend))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("destination.backend must be one of %q, %q, got %q",
			BackendAzure, BackendFilesystem, d.Backend))
	}

	if d.DataObject == "" {
		result = multierror.Append(result, fmt.Errorf("destination.data_object is required"))
	} else if d.LedgerObjectName() == d.DataObject {
		result = multierror.Append(result, fmt.Errorf("destination.ledger_object must differ from destination.data_object"))
	}

	return result.ErrorOrNil()
}

func (m Migration) validate() error {
	var result *multierror.Error

	if m.RecordTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("migration.record_timeout must be positive"))
	}
	if m.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("migration.max_retries must not be negative"))
	}
	if m.InitialBackoff <= 0 {
		result = multierror.Append(result, fmt.Errorf("migration.initial_backoff must be positive"))
	}
	if m.MaxBackoff < m.InitialBackoff {
		result = multierror.Append(result, fmt.Errorf("migration.max_backoff must not be smaller than migration.initial_backoff"))
	}

	switch m.CorruptLedgerPolicy {
	case CorruptLedgerSkip, CorruptLedgerAbort:
	default:
		result = multierror.Append(result, fmt.Errorf("migration.corrupt_ledger_policy must be %q or %q, got %q",
			CorruptLedgerSkip, CorruptLedgerAbort, m.CorruptLedgerPolicy))
	}

	return result.ErrorOrNil()
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
