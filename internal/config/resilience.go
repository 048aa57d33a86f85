package config

import (
	"fmt"
	"math"
	"time"
)

// Retry configuration constants
const (
	// Sheet Read retry configuration
	SheetReadMaxAttempts       = 3
	SheetReadInitialWait       = 500 * time.Millisecond
	SheetReadMaxWait           = 5 * time.Second
	SheetReadBackoffMultiplier = 2.0
	SheetReadTimeout           = 60 * time.Second

	// Sheet Write retry configuration
	SheetWriteMaxAttempts       = 3
	SheetWriteInitialWait       = 1 * time.Second
	SheetWriteMaxWait           = 10 * time.Second
	SheetWriteBackoffMultiplier = 2.0
	SheetWriteTimeout           = 60 * time.Second

	// Drive file creation retry configuration
	DriveCreateMaxAttempts       = 3
	DriveCreateInitialWait       = 1 * time.Second
	DriveCreateMaxWait           = 10 * time.Second
	DriveCreateBackoffMultiplier = 2.0
	DriveCreateTimeout           = 30 * time.Second
)

// RetryConfig defines retry behavior for operations
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// Backoff returns the wait before the given retry (1 for the first retry),
// capped at MaxWait.
func (c RetryConfig) Backoff(retry int) time.Duration {
	if retry < 1 {
		return 0
	}
	wait := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(retry-1))
	if c.MaxWait > 0 && wait > float64(c.MaxWait) {
		return c.MaxWait
	}
	return time.Duration(wait)
}

// Validate rejects configurations that would never attempt the call or
// would back off in the wrong direction.
func (c RetryConfig) Validate() error {
	switch {
	case c.MaxAttempts < 1:
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	case c.InitialWait < 0:
		return fmt.Errorf("initial wait must not be negative, got %v", c.InitialWait)
	case c.MaxWait < c.InitialWait:
		return fmt.Errorf("max wait %v is shorter than initial wait %v", c.MaxWait, c.InitialWait)
	case c.Multiplier <= 0:
		return fmt.Errorf("backoff multiplier must be positive, got %v", c.Multiplier)
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// ResilienceConfig contains all retry configurations
type ResilienceConfig struct {
	SheetRead   RetryConfig
	SheetWrite  RetryConfig
	DriveCreate RetryConfig
}

// WithMaxAttempts returns a copy with every operation limited to attempts.
// Values below 1 leave the configuration unchanged.
func (c ResilienceConfig) WithMaxAttempts(attempts int) ResilienceConfig {
	if attempts < 1 {
		return c
	}
	c.SheetRead.MaxAttempts = attempts
	c.SheetWrite.MaxAttempts = attempts
	c.DriveCreate.MaxAttempts = attempts
	return c
}

// Validate checks every operation's retry configuration.
func (c ResilienceConfig) Validate() error {
	for _, op := range []struct {
		name string
		cfg  RetryConfig
	}{
		{"sheet read", c.SheetRead},
		{"sheet write", c.SheetWrite},
		{"drive create", c.DriveCreate},
	} {
		if err := op.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid %s retry config: %w", op.name, err)
		}
	}
	return nil
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: RetryConfig{
		MaxAttempts: SheetReadMaxAttempts,
		InitialWait: SheetReadInitialWait,
		MaxWait:     SheetReadMaxWait,
		Multiplier:  SheetReadBackoffMultiplier,
		Timeout:     SheetReadTimeout,
	},
	SheetWrite: RetryConfig{
		MaxAttempts: SheetWriteMaxAttempts,
		InitialWait: SheetWriteInitialWait,
		MaxWait:     SheetWriteMaxWait,
		Multiplier:  SheetWriteBackoffMultiplier,
		Timeout:     SheetWriteTimeout,
	},
	DriveCreate: RetryConfig{
		MaxAttempts: DriveCreateMaxAttempts,
		InitialWait: DriveCreateInitialWait,
		MaxWait:     DriveCreateMaxWait,
		Multiplier:  DriveCreateBackoffMultiplier,
		Timeout:     DriveCreateTimeout,
	},
}
