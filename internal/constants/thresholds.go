package constants

import "time"

// Centralized threshold values used across the application.
// Keep these stable; change deliberately and document why.
// These are not configuration knobs; use pkg/config for env-driven settings.

const (
	// Fuzzy matching
	// FuzzyMatchThreshold was tuned against the greedy token pairing in
	// internal/match; re-tune if the pairing algorithm ever changes.
	FuzzyMatchThreshold = 0.55

	// Per-token Levenshtein tolerance by average token length
	ShortTokenLen      = 4
	MediumTokenLen     = 8
	ShortTokenMaxEdit  = 1
	MediumTokenMaxEdit = 2
	LongTokenMaxEdit   = 2
	MaxTokenLenDiff    = 2

	// Candidate selection
	CandidateLimit      = 50
	MaxSimilarMatches   = 5
	MinSearchTokenChars = 3

	// Entity name bounds shared by validation and storage
	MinNameChars = 2
	MaxNameChars = 200

	// Vintage sanity bounds
	MinVintageYear = 1800
	MaxVintageYear = 2100

	// Database timeouts
	DBReadTimeoutDefault  = 8 * time.Second
	DBWriteTimeoutDefault = 6 * time.Second
)
