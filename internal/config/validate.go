package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Catalog.validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	if c.Pipeline.SlowRequestThreshold <= 0 {
		return fmt.Errorf("pipeline: slow_request_threshold must be > 0 (got %v)", c.Pipeline.SlowRequestThreshold)
	}

	return nil
}

func (c *CatalogConfig) validate() error {
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("max_page_size must be > 0 (got %d)", c.MaxPageSize)
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("default_page_size must be in 1..max_page_size (got %d)", c.DefaultPageSize)
	}
	if c.HardDeleteRetentionDays < 0 {
		return fmt.Errorf("hard_delete_retention_days must be >= 0 (got %d)", c.HardDeleteRetentionDays)
	}
	return nil
}
