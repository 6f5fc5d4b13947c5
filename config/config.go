/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/suparena/docstore/registry"
)

// Supported backends
const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCSTORE_"

// CollectionConfig declares the key attributes of one collection.
type CollectionConfig struct {
	PartitionKey string `yaml:"partitionKey"`
	SortKey      string `yaml:"sortKey,omitempty"`
}

// Config holds everything needed to open a client.
type Config struct {
	Backend   string `yaml:"backend"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`

	// RetryAttempts and RetryMaxWait shape the vendor client's throttling retry.
	RetryAttempts int           `yaml:"retryAttempts"`
	RetryMaxWait  time.Duration `yaml:"retryMaxWait"`

	// WaitCeiling bounds every blocking call.
	WaitCeiling time.Duration `yaml:"waitCeiling"`
	// PageSize is the default page size of new queries; negative means unbounded.
	PageSize int `yaml:"pageSize"`

	Collections map[string]CollectionConfig `yaml:"collections,omitempty"`
	LogLevel    string                      `yaml:"logLevel"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:       BackendDynamoDB,
		Region:        "us-east-1",
		RetryAttempts: 9,
		RetryMaxWait:  30 * time.Second,
		WaitCeiling:   time.Hour,
		PageSize:      1000,
		LogLevel:      "info",
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when
// path is empty), the given .env files (".env" when none are named, ignored if
// absent) and finally DOCSTORE_* environment variables.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string, fallbacks ...string) {
		for _, k := range append([]string{EnvPrefix + key}, fallbacks...) {
			if v, ok := os.LookupEnv(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	str("BACKEND", &c.Backend)
	str("ENDPOINT", &c.Endpoint)
	str("REGION", &c.Region, "AWS_REGION")
	str("ACCESS_KEY", &c.AccessKey, "AWS_ACCESS_KEY")
	str("SECRET_KEY", &c.SecretKey, "AWS_SECRET_KEY")
	str("LOG_LEVEL", &c.LogLevel)

	var errs []error
	if v, ok := os.LookupEnv(EnvPrefix + "RETRY_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRETRY_ATTEMPTS: %w", EnvPrefix, err))
		}
		c.RetryAttempts = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sPAGE_SIZE: %w", EnvPrefix, err))
		}
		c.PageSize = n
	}
	durations := map[string]*time.Duration{
		"RETRY_MAX_WAIT": &c.RetryMaxWait,
		"WAIT_CEILING":   &c.WaitCeiling,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
			continue
		}
		*dst = d
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendDynamoDB:
		if c.Region == "" {
			errs = append(errs, errors.New("region is required for the dynamodb backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("backend %q is not one of %q, %q", c.Backend, BackendDynamoDB, BackendMemory))
	}

	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("accessKey and secretKey must be set together"))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("retryAttempts must be at least 1, got %d", c.RetryAttempts))
	}
	if c.RetryMaxWait < 0 {
		errs = append(errs, fmt.Errorf("retryMaxWait must not be negative, got %s", c.RetryMaxWait))
	}
	if c.WaitCeiling <= 0 {
		errs = append(errs, fmt.Errorf("waitCeiling must be positive, got %s", c.WaitCeiling))
	}
	if c.PageSize == 0 {
		errs = append(errs, errors.New("pageSize must be positive or negative for unbounded pages"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: %w", err))
	}
	for name, coll := range c.Collections {
		if coll.PartitionKey == "" {
			errs = append(errs, fmt.Errorf("collections.%s.partitionKey is required", name))
		}
	}

	return errors.Join(errs...)
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// KeySchemas builds the key schema registry for the configured collections.
func (c *Config) KeySchemas() (*registry.KeySchemaRegistry, error) {
	schemas := registry.NewKeySchemaRegistry()
	for name, coll := range c.Collections {
		if err := schemas.Register(name, registry.KeySchema{PartitionKey: coll.PartitionKey, SortKey: coll.SortKey}); err != nil {
			return nil, err
		}
	}
	return schemas, nil
}
