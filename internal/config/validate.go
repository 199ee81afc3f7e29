package config

import (
	"errors"
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Definitions.Path == "" {
		return errors.New("definitions.path is required")
	}

	if c.Callback.SubmittedRetries < 1 {
		return fmt.Errorf("callback.submitted_retries must be >= 1 (got %d)", c.Callback.SubmittedRetries)
	}

	if err := c.Indexer.validate(); err != nil {
		return fmt.Errorf("indexer: %w", err)
	}

	if c.Indexer.Enabled && len(c.Search.Addresses()) == 0 {
		return errors.New("search.addresses is required when the indexer is enabled")
	}

	if err := c.Outbox.validate(); err != nil {
		return fmt.Errorf("outbox: %w", err)
	}

	if c.Outbox.RelayEnabled {
		return c.ValidateRelay()
	}

	return nil
}

// ValidateRelay checks the settings the outbox relay needs. The relay
// command runs it regardless of Outbox.RelayEnabled.
func (c *Config) ValidateRelay() error {
	if err := c.Outbox.validate(); err != nil {
		return fmt.Errorf("outbox: %w", err)
	}
	if len(c.Kafka.Brokers()) == 0 {
		return errors.New("kafka.brokers is required by the outbox relay")
	}
	if c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required by the outbox relay")
	}
	return nil
}

func (c *OutboxConfig) validate() error {
	if c.BatchSize == 0 {
		return errors.New("batch_size must be > 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0 (got %v)", c.PollInterval)
	}
	return nil
}

func (c *IndexerConfig) validate() error {
	if c.BatchSize == 0 {
		return errors.New("batch_size must be > 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be > 0 (got %v)", c.PollInterval)
	}
	return nil
}
