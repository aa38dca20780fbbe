// Package catalog loads and validates the intent catalog: the declarative
// document describing every routable intent, the urgency vocabulary, the
// time-phrase grammar, and the complexity weight and threshold tables.
// A Catalog is immutable after load and safe for concurrent readers.
package catalog

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/xeipuuv/gojsonschema"

	commonerrors "insight-router/internal/common/errors"
	"insight-router/internal/models"
)

// PatternKind tags a time pattern with its resolution rule.
type PatternKind string

const (
	PatternRelative      PatternKind = "relative"       // "last 24 months" -> value + unit
	PatternImmediate     PatternKind = "immediate"      // "now", "immediately" -> 1 month
	PatternAbsoluteRange PatternKind = "absolute_range" // "2020-2023" -> bounded years
	PatternAbsoluteOpen  PatternKind = "absolute_open"  // "since 2022" -> open-ended
)

// PrefetchTemplate declares one data need of an intent. Wants names the
// entity groups the router fills in: sectors, metrics, window.
type PrefetchTemplate struct {
	Function string   `json:"function"`
	Wants    []string `json:"wants"`
}

// IntentEntry describes one routable intent.
type IntentEntry struct {
	ID           string             `json:"id"`
	Description  string             `json:"description"`
	Keywords     []string           `json:"keywords"`
	SectorsHint  bool               `json:"sectors_hint"`
	MetricsHint  bool               `json:"metrics_hint"`
	MetricSubset []string           `json:"metric_subset"`
	Examples     []string           `json:"examples"`
	Prefetch     []PrefetchTemplate `json:"prefetch"`
}

// TimePattern is one prioritized time-grammar rule. Regex is compiled at
// load; patterns apply in declaration order and the first match wins.
type TimePattern struct {
	Kind    PatternKind `json:"kind"`
	Pattern string      `json:"pattern"`
	Regex   *regexp.Regexp
}

// Weights is the complexity scoring table. The values are deliberately plain
// catalog data so they stay tunable without recompilation.
type Weights struct {
	IntentSingle  int `json:"intent_single"`
	IntentMulti   int `json:"intent_multi"`
	SectorFew     int `json:"sector_few"`
	SectorMany    int `json:"sector_many"`
	HorizonShort  int `json:"horizon_short"`
	HorizonMedium int `json:"horizon_medium"`
	HorizonLong   int `json:"horizon_long"`
	MetricsNone   int `json:"metrics_none"`
	MetricsFew    int `json:"metrics_few"`
	MetricsMany   int `json:"metrics_many"`
	UrgencyBonus  int `json:"urgency_bonus"`
}

// ThresholdRange maps one contiguous score range to a complexity bucket.
// Max nil means open-ended (the last range).
type ThresholdRange struct {
	Bucket models.Complexity `json:"bucket"`
	Min    int               `json:"min"`
	Max    *int              `json:"max"`
}

type complexityConfig struct {
	Weights    Weights          `json:"weights"`
	Thresholds []ThresholdRange `json:"thresholds"`
}

type document struct {
	Intents         []IntentEntry    `json:"intents"`
	UrgencyKeywords []string         `json:"urgency_keywords"`
	TimePatterns    []TimePattern    `json:"time_patterns"`
	Complexity      complexityConfig `json:"complexity"`
}

// Catalog is the validated, immutable intent catalog.
type Catalog struct {
	Intents         []IntentEntry
	UrgencyKeywords []string
	TimePatterns    []TimePattern
	Weights         Weights
	Thresholds      []ThresholdRange

	byID map[string]*IntentEntry
}

// Load reads, schema-validates and semantically validates a catalog file.
// Any violation is a fatal configuration error; the process must not start
// with a partially valid catalog.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, commonerrors.NewConfigErrorf("catalog file %s: %v", path, err)
	}
	return Parse(raw)
}

// Parse validates and builds a Catalog from raw JSON.
func Parse(raw []byte) (*Catalog, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, commonerrors.NewConfigErrorf("catalog schema check: %v", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, commonerrors.NewConfigErrorf("catalog schema violations: %s", strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, commonerrors.NewConfigErrorf("catalog decode: %v", err)
	}

	c := &Catalog{
		Intents:         doc.Intents,
		UrgencyKeywords: lowerAll(doc.UrgencyKeywords),
		TimePatterns:    doc.TimePatterns,
		Weights:         doc.Complexity.Weights,
		Thresholds:      doc.Complexity.Thresholds,
		byID:            make(map[string]*IntentEntry, len(doc.Intents)),
	}

	for i := range c.Intents {
		entry := &c.Intents[i]
		if err := validateEntry(entry); err != nil {
			return nil, commonerrors.NewConfigErrorf("intent %q: %v", entry.ID, err)
		}
		entry.Keywords = lowerAll(entry.Keywords)
		entry.MetricSubset = lowerAll(entry.MetricSubset)
		if _, dup := c.byID[entry.ID]; dup {
			return nil, commonerrors.NewConfigErrorf("duplicate intent id %q", entry.ID)
		}
		c.byID[entry.ID] = entry
	}

	for i := range c.TimePatterns {
		p := &c.TimePatterns[i]
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, commonerrors.NewConfigErrorf("time pattern %q: %v", p.Pattern, err)
		}
		p.Regex = re
	}

	if err := validateThresholds(c.Thresholds); err != nil {
		return nil, err
	}

	return c, nil
}

var intentIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func validateEntry(e *IntentEntry) error {
	return validation.ValidateStruct(e,
		validation.Field(&e.ID, validation.Required, validation.Match(intentIDPattern)),
		validation.Field(&e.Keywords, validation.Required, validation.Length(1, 0)),
		validation.Field(&e.MetricSubset, validation.When(len(e.MetricSubset) > 0 && !e.MetricsHint,
			validation.Empty.Error("metric_subset requires metrics_hint"))),
	)
}

// validateThresholds enforces that the four ranges are contiguous, start at
// zero, end open, and name each bucket exactly once. Every non-negative
// score must map to exactly one bucket.
func validateThresholds(ranges []ThresholdRange) error {
	if len(ranges) != 4 {
		return commonerrors.NewConfigErrorf("complexity thresholds: expected 4 ranges, got %d", len(ranges))
	}

	seen := make(map[models.Complexity]bool, 4)
	next := 0
	for i, r := range ranges {
		if seen[r.Bucket] {
			return commonerrors.NewConfigErrorf("complexity thresholds: bucket %q appears twice", r.Bucket)
		}
		seen[r.Bucket] = true

		if r.Min != next {
			return commonerrors.NewConfigErrorf(
				"complexity thresholds: range %d starts at %d, expected %d (ranges must be contiguous)", i, r.Min, next)
		}

		last := i == len(ranges)-1
		if last {
			if r.Max != nil {
				return commonerrors.NewConfigError("complexity thresholds: last range must be open-ended")
			}
			continue
		}
		if r.Max == nil {
			return commonerrors.NewConfigErrorf("complexity thresholds: range %d (%s) missing max", i, r.Bucket)
		}
		if *r.Max < r.Min {
			return commonerrors.NewConfigErrorf("complexity thresholds: range %d (%s) has max below min", i, r.Bucket)
		}
		next = *r.Max + 1
	}
	return nil
}

// Get returns the entry for an intent id.
func (c *Catalog) Get(id string) (*IntentEntry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// BucketFor maps a complexity score to its bucket. Thresholds are validated
// exhaustive at load, so every non-negative score lands in exactly one range.
func (c *Catalog) BucketFor(score int) models.Complexity {
	for _, r := range c.Thresholds {
		if score < r.Min {
			continue
		}
		if r.Max == nil || score <= *r.Max {
			return r.Bucket
		}
	}
	// Unreachable with a validated catalog; negative scores clamp to the
	// first range.
	return c.Thresholds[0].Bucket
}

// HasUrgency reports whether the normalized text contains any urgency term.
func (c *Catalog) HasUrgency(normalizedText string) bool {
	for _, kw := range c.UrgencyKeywords {
		if strings.Contains(normalizedText, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
