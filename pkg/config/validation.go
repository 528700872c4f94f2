package config

import (
	"fmt"
	"strconv"
)

// Validate rejects configurations the resolver or server cannot run with.
// Called on startup and on every hot reload; a failed reload keeps the
// previous configuration in place.
func (c *Config) Validate() error {
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("FUZZY_THRESHOLD must be in (0,1], got %v", c.FuzzyThreshold)
	}
	if c.CandidateLimit <= 0 {
		return fmt.Errorf("CANDIDATE_LIMIT must be positive, got %d", c.CandidateLimit)
	}
	if c.MaxSimilarMatches <= 0 {
		return fmt.Errorf("MAX_SIMILAR_MATCHES must be positive, got %d", c.MaxSimilarMatches)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns < 0 {
		return fmt.Errorf("database pool settings out of range (open=%d idle=%d)", c.DBMaxOpenConns, c.DBMaxIdleConns)
	}
	if c.ConfigReloadIntervalSeconds <= 0 {
		return fmt.Errorf("CONFIG_RELOAD_INTERVAL_SECONDS must be positive, got %d", c.ConfigReloadIntervalSeconds)
	}
	return nil
}
