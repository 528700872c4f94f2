package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EntityKind identifies which reference table a duplicate check targets.
type EntityKind string

const (
	KindRegion   EntityKind = "region"
	KindProducer EntityKind = "producer"
	KindWine     EntityKind = "wine"
)

// Valid reports whether the kind is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindRegion, KindProducer, KindWine:
		return true
	}
	return false
}

// Region is a wine region row from the corpus.
type Region struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Producer is a producer row, optionally attached to a region.
type Producer struct {
	ID         int64   `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	RegionID   *int64  `json:"region_id,omitempty" db:"region_id"`
	RegionName *string `json:"region_name,omitempty" db:"region_name"`
}

// Wine is a wine/vintage row. BottleCount is the number of unconsumed
// bottles on hand, joined in by the storage layer.
type Wine struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	ProducerID   int64  `json:"producer_id" db:"producer_id"`
	ProducerName string `json:"producer_name" db:"producer_name"`
	Year         *int   `json:"year,omitempty" db:"year"`
	NonVintage   bool   `json:"non_vintage" db:"non_vintage"`
	BottleCount  int    `json:"bottle_count" db:"bottle_count"`
}

// Vintage is either a concrete year or the non-vintage marker. In JSON it
// is a number or the string "NV" (case-insensitive).
type Vintage struct {
	Year       int
	NonVintage bool
}

func (v Vintage) MarshalJSON() ([]byte, error) {
	if v.NonVintage {
		return json.Marshal("NV")
	}
	return json.Marshal(v.Year)
}

func (v *Vintage) UnmarshalJSON(data []byte) error {
	var year int
	if err := json.Unmarshal(data, &year); err == nil {
		*v = Vintage{Year: year}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "NV") {
			*v = Vintage{NonVintage: true}
			return nil
		}
		return fmt.Errorf("vintage must be a year or \"NV\", got %q", s)
	}
	return fmt.Errorf("vintage must be a year or \"NV\"")
}

// String renders the vintage for display, e.g. "2015" or "NV".
func (v Vintage) String() string {
	if v.NonVintage {
		return "NV"
	}
	return fmt.Sprintf("%d", v.Year)
}

// Agrees implements vintage agreement against a corpus row: both
// non-vintage agree, two explicit years agree iff equal, and a vintage
// never agrees with a non-vintage.
func (v Vintage) Agrees(year *int, nonVintage bool) bool {
	if v.NonVintage {
		return nonVintage && year == nil
	}
	return year != nil && *year == v.Year
}

// CheckContext carries the optional kind-specific scoping fields of a
// duplicate check: region for producers, producer and vintage for wines.
type CheckContext struct {
	RegionID     *int64   `json:"regionId,omitempty"`
	RegionName   *string  `json:"regionName,omitempty"`
	ProducerID   *int64   `json:"producerId,omitempty"`
	ProducerName *string  `json:"producerName,omitempty"`
	VintageYear  *Vintage `json:"vintageYear,omitempty"`
}

// CheckRequest is the wire format of a duplicate check.
type CheckRequest struct {
	Kind    EntityKind    `json:"kind"`
	Name    string        `json:"name"`
	Context *CheckContext `json:"context,omitempty"`
}

// ProducerScope narrows wine queries to a single producer, by id or name.
type ProducerScope struct {
	ProducerID   *int64
	ProducerName *string
}

// Empty reports whether no producer scoping was requested.
func (s ProducerScope) Empty() bool { return s.ProducerID == nil && s.ProducerName == nil }

// MatchResult is a single exact or fuzzy hit. Meta is a human-readable
// disambiguator: the region name for a producer, "producer + vintage" for
// a wine.
type MatchResult struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Meta string `json:"meta,omitempty"`
}

// Verdict is the outcome of one duplicate check. ExistingEntityID and
// ExistingCount are populated only for the wine kind, when name, producer
// scope and vintage all align and at least one bottle is on hand.
type Verdict struct {
	ExactMatch       *MatchResult  `json:"exactMatch"`
	SimilarMatches   []MatchResult `json:"similarMatches"`
	ExistingEntityID *int64        `json:"existingEntityId"`
	ExistingCount    int           `json:"existingCount"`
}
