package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server: rate_limit must be >= 0 (got %d)", c.Server.RateLimit)
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}

	if err := c.Progress.validate(); err != nil {
		return fmt.Errorf("progress: %w", err)
	}

	if err := c.Reminder.validate(); err != nil {
		return fmt.Errorf("reminder: %w", err)
	}

	return nil
}

func (s *StoreConfig) validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for driver %q", s.Driver)
		}
		if s.MaxConns <= 0 || s.MinConns < 0 || s.MinConns > s.MaxConns {
			return fmt.Errorf("invalid pool size: min_conns=%d max_conns=%d", s.MinConns, s.MaxConns)
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for driver %q", s.Driver)
		}
	default:
		return fmt.Errorf("unknown driver %q (want memory, postgres or sqlite)", s.Driver)
	}
	return nil
}

func (s *SRSConfig) validate() error {
	if s.MinEaseFactor <= 0 {
		return fmt.Errorf("min_ease_factor must be > 0 (got %v)", s.MinEaseFactor)
	}
	if s.MaxEaseFactor < s.MinEaseFactor {
		return fmt.Errorf("max_ease_factor must be >= min_ease_factor (got %v < %v)", s.MaxEaseFactor, s.MinEaseFactor)
	}
	if s.DefaultEaseFactor < s.MinEaseFactor || s.DefaultEaseFactor > s.MaxEaseFactor {
		return fmt.Errorf("default_ease_factor must be within [%v, %v] (got %v)", s.MinEaseFactor, s.MaxEaseFactor, s.DefaultEaseFactor)
	}
	if s.DueLimitDefault <= 0 || s.DueLimitDefault > 200 {
		return fmt.Errorf("due_limit_default must be between 1 and 200 (got %d)", s.DueLimitDefault)
	}
	if s.HistoryDays <= 0 {
		return fmt.Errorf("history_days must be > 0 (got %d)", s.HistoryDays)
	}
	return nil
}

func (p *ProgressConfig) validate() error {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", p.Timezone, err)
	}
	p.Location = loc
	return nil
}

func (r *ReminderConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Interval < time.Minute {
		return fmt.Errorf("interval must be >= 1m (got %v)", r.Interval)
	}
	if r.StartHour < 0 || r.StartHour > 23 || r.EndHour < 0 || r.EndHour > 23 {
		return fmt.Errorf("hours must be within 0..23 (got %d..%d)", r.StartHour, r.EndHour)
	}
	if r.StartHour > r.EndHour {
		return fmt.Errorf("start_hour must be <= end_hour (got %d > %d)", r.StartHour, r.EndHour)
	}
	return nil
}
