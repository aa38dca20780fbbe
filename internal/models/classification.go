// internal/models/classification.go
package models

// Complexity buckets a query into one of four effort tiers. The bucket drives
// the execution mode downstream.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
	ComplexityCrisis  Complexity = "crisis"
)

// TimeHorizonType discriminates the TimeHorizon tagged union.
type TimeHorizonType string

const (
	TimeHorizonRelative TimeHorizonType = "relative"
	TimeHorizonAbsolute TimeHorizonType = "absolute"
)

// TimeHorizon is the time window a query references. Months is the resolved
// span; it is nil for open-ended absolute ranges ("since 2022"), which keeps
// classification deterministic across days.
type TimeHorizon struct {
	Type      TimeHorizonType `json:"type"`
	Value     int             `json:"value,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	StartYear int             `json:"startYear,omitempty"`
	EndYear   *int            `json:"endYear,omitempty"`
	Months    *int            `json:"months,omitempty"`
}

// BoundedMonths returns the resolved span and whether one exists.
func (t *TimeHorizon) BoundedMonths() (int, bool) {
	if t == nil || t.Months == nil {
		return 0, false
	}
	return *t.Months, true
}

// Entities is the structured entity set extracted from one query. Sectors and
// metrics are lexicon-matched, lowercased and deduplicated, kept in lexicon
// declaration order so repeated extraction is byte-stable.
type Entities struct {
	Sectors     []string     `json:"sectors"`
	Metrics     []string     `json:"metrics"`
	TimeHorizon *TimeHorizon `json:"timeHorizon,omitempty"`
}

// IntentScore is one ranked candidate emitted by the scorer.
type IntentScore struct {
	Intent     string  `json:"intent"`
	RawScore   float64 `json:"rawScore"`
	Confidence float64 `json:"confidence"`
}

// Classification is the immutable result of classifying one query.
type Classification struct {
	Intents    []string   `json:"intents"`
	Complexity Complexity `json:"complexity"`
	Entities   Entities   `json:"entities"`
	Confidence float64    `json:"confidence"`
	Reasons    []string   `json:"reasons"`
}
