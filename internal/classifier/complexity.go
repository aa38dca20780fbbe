// internal/classifier/complexity.go
package classifier

import (
	"insight-router/internal/catalog"
	"insight-router/internal/models"
)

// Horizon tier boundaries in months. Horizons without a bounded span (open
// "since YYYY" ranges) contribute nothing.
const (
	horizonShortMax  = 24
	horizonMediumMax = 48
	crisisHorizonMax = 3
	metricsFewMax    = 2
)

// EvaluateComplexity applies the catalog weight table to the classification
// inputs and maps the resulting score onto the threshold ranges. The crisis
// override (urgency plus a horizon of three months or less) is checked before
// the range lookup, so it wins regardless of the numeric score.
func EvaluateComplexity(intentCount int, ents models.Entities, urgent bool, cat *catalog.Catalog) (models.Complexity, int) {
	w := cat.Weights
	score := 0

	if intentCount > 1 {
		score += w.IntentMulti
	} else {
		score += w.IntentSingle
	}

	if len(ents.Sectors) > 1 {
		score += w.SectorMany
	} else {
		score += w.SectorFew
	}

	if months, ok := ents.TimeHorizon.BoundedMonths(); ok {
		switch {
		case months <= horizonShortMax:
			score += w.HorizonShort
		case months <= horizonMediumMax:
			score += w.HorizonMedium
		default:
			score += w.HorizonLong
		}
	}

	switch {
	case len(ents.Metrics) == 0:
		score += w.MetricsNone
	case len(ents.Metrics) <= metricsFewMax:
		score += w.MetricsFew
	default:
		score += w.MetricsMany
	}

	if urgent {
		score += w.UrgencyBonus
	}

	if urgent {
		if months, ok := ents.TimeHorizon.BoundedMonths(); ok && months <= crisisHorizonMax {
			return models.ComplexityCrisis, score
		}
	}

	return cat.BucketFor(score), score
}
