package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:                        "8080",
		DBMaxOpenConns:              25,
		DBMaxIdleConns:              10,
		DBReadTimeout:               8 * time.Second,
		DBWriteTimeout:              6 * time.Second,
		FuzzyThreshold:              0.55,
		CandidateLimit:              50,
		MaxSimilarMatches:           5,
		ConfigReloadIntervalSeconds: 2,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.FuzzyThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.FuzzyThreshold = 1.2 }},
		{"zero candidate limit", func(c *Config) { c.CandidateLimit = 0 }},
		{"zero max similar", func(c *Config) { c.MaxSimilarMatches = 0 }},
		{"non-numeric port", func(c *Config) { c.Port = "http" }},
		{"no open conns", func(c *Config) { c.DBMaxOpenConns = 0 }},
		{"zero reload interval", func(c *Config) { c.ConfigReloadIntervalSeconds = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"FUZZY_THRESHOLD", "CANDIDATE_LIMIT", "MAX_SIMILAR_MATCHES", "PORT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.FuzzyThreshold != 0.55 {
		t.Fatalf("default threshold = %v", cfg.FuzzyThreshold)
	}
	if cfg.CandidateLimit != 50 || cfg.MaxSimilarMatches != 5 {
		t.Fatalf("default limits = %d/%d", cfg.CandidateLimit, cfg.MaxSimilarMatches)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port = %q", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FUZZY_THRESHOLD", "0.7")
	t.Setenv("MAX_SIMILAR_MATCHES", "3")
	cfg := Load()
	if cfg.FuzzyThreshold != 0.7 {
		t.Fatalf("threshold override = %v", cfg.FuzzyThreshold)
	}
	if cfg.MaxSimilarMatches != 3 {
		t.Fatalf("max similar override = %d", cfg.MaxSimilarMatches)
	}
}

func TestDiffKeys(t *testing.T) {
	a := validConfig()
	b := validConfig()
	if got := diffKeys(a, b); len(got) != 0 {
		t.Fatalf("identical configs diffed: %v", got)
	}
	b.FuzzyThreshold = 0.7
	b.MaxSimilarMatches = 3
	got := diffKeys(a, b)
	if len(got) != 2 {
		t.Fatalf("expected 2 changed fields, got %v", got)
	}
}

func TestWatcherNotifiesOnChange(t *testing.T) {
	t.Setenv("FUZZY_THRESHOLD", "0.55")
	w := NewWatcher(time.Hour) // never ticks; drive checkOnce directly
	defer w.Close()
	ch := w.Subscribe()

	t.Setenv("FUZZY_THRESHOLD", "0.7")
	w.checkOnce()

	select {
	case chg := <-ch:
		if chg.Err != nil {
			t.Fatalf("unexpected reload error: %v", chg.Err)
		}
		if chg.New.FuzzyThreshold != 0.7 {
			t.Fatalf("new threshold = %v", chg.New.FuzzyThreshold)
		}
	default:
		t.Fatal("expected a change notification")
	}
}

func TestWatcherRejectsInvalidReload(t *testing.T) {
	w := NewWatcher(time.Hour)
	defer w.Close()
	ch := w.Subscribe()

	t.Setenv("FUZZY_THRESHOLD", "7.5")
	w.checkOnce()

	select {
	case chg := <-ch:
		if chg.Err == nil {
			t.Fatal("invalid reload must carry an error")
		}
	default:
		t.Fatal("expected an error notification")
	}
}
