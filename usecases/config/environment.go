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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// FromEnv takes a *Config as it will respect initial config that has been
// provided by other means (e.g. a config file) and will only extend those that
// are set
func FromEnv(config *Config) error {
	if v := os.Getenv("SOURCE_BACKEND"); v != "" {
		config.Source.Backend = v
	}

	if v := os.Getenv("SOURCE_BUCKET"); v != "" {
		config.Source.Bucket = v
	}

	if v := os.Getenv("SOURCE_PREFIX"); v != "" {
		config.Source.Prefix = v
	}

	if v := os.Getenv("SOURCE_INCLUDE"); v != "" {
		config.Source.Include = splitList(v)
	}

	if v := os.Getenv("SOURCE_EXCLUDE"); v != "" {
		config.Source.Exclude = splitList(v)
	}

	if v := os.Getenv("SOURCE_S3_ENDPOINT"); v != "" {
		config.Source.Endpoint = v
	}

	if v := os.Getenv("SOURCE_S3_USE_SSL"); v != "" {
		config.Source.UseSSL = Enabled(v)
	}

	if v := os.Getenv("SOURCE_PATH"); v != "" {
		config.Source.Path = v
	}

	if v := os.Getenv("SOURCE_RATE_LIMIT"); v != "" {
		asFloat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "parse SOURCE_RATE_LIMIT as float")
		}
		config.Source.RateLimit = asFloat
	}

	if v := os.Getenv("SOURCE_RATE_BURST"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse SOURCE_RATE_BURST as int")
		}
		config.Source.Burst = asInt
	}

	if v := os.Getenv("DESTINATION_BACKEND"); v != "" {
		config.Destination.Backend = v
	}

	if v := os.Getenv("DESTINATION_CONTAINER"); v != "" {
		config.Destination.Container = v
	}

	if v := os.Getenv("DESTINATION_DATA_OBJECT"); v != "" {
		config.Destination.DataObject = v
	}

	if v := os.Getenv("DESTINATION_LEDGER_OBJECT"); v != "" {
		config.Destination.LedgerObject = v
	}

	if v := os.Getenv("AZURE_STORAGE_CONNECTION_STRING"); v != "" {
		config.Destination.ConnectionString = v
	}

	if v := os.Getenv("DESTINATION_PATH"); v != "" {
		config.Destination.Path = v
	}

	if Enabled(os.Getenv("DESTINATION_LOCK_ENABLED")) {
		config.Destination.Lock = true

		if err := parseDuration("DESTINATION_LOCK_TTL", &config.Destination.LockTTL); err != nil {
			return err
		}
	}

	if err := parseDuration("MIGRATION_RECORD_TIMEOUT", &config.Migration.RecordTimeout); err != nil {
		return err
	}

	if err := parseDuration("MIGRATION_INITIAL_BACKOFF", &config.Migration.InitialBackoff); err != nil {
		return err
	}

	if err := parseDuration("MIGRATION_MAX_BACKOFF", &config.Migration.MaxBackoff); err != nil {
		return err
	}

	if v := os.Getenv("MIGRATION_MAX_RETRIES"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse MIGRATION_MAX_RETRIES as int")
		}
		config.Migration.MaxRetries = asInt
	}

	if v := os.Getenv("MIGRATION_CORRUPT_LEDGER_POLICY"); v != "" {
		config.Migration.CorruptLedgerPolicy = v
	}

	if Enabled(os.Getenv("PROMETHEUS_MONITORING_ENABLED")) {
		config.Monitoring.Enabled = true

		if v := os.Getenv("PROMETHEUS_MONITORING_PORT"); v != "" {
			asInt, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "parse PROMETHEUS_MONITORING_PORT as int")
			}
			config.Monitoring.Port = asInt
		}
	}

	return nil
}

func parseDuration(envName string, target *time.Duration) error {
	v := os.Getenv(envName)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s as duration", envName)
	}
	*target = d
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Enabled interprets an env var value as a boolean switch.
func Enabled(value string) bool {
	if value == "" {
		return false
	}

	if value == "on" ||
		value == "enabled" ||
		value == "1" ||
		value == "true" {
		return true
	}

	return false
}
