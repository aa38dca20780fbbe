// internal/classifier/scorer.go
package classifier

import (
	"sort"
	"strings"

	"insight-router/internal/catalog"
	"insight-router/internal/models"
)

// Scoring constants. The denominator is a fixed closed-form normalization,
// not derived from the catalog: five accumulated points saturate confidence.
const (
	keywordPoints     = 1.0
	hintBonusPoints   = 1.0
	confidenceDivisor = 5.0
	intentThreshold   = 0.30
)

// Score ranks every catalog intent against the normalized text and entity
// set. Candidates below the per-intent threshold are discarded; an empty
// result means no intent recognized the query. Ties keep catalog declaration
// order, so ranking is deterministic.
func Score(norm string, ents models.Entities, cat *catalog.Catalog) []models.IntentScore {
	scores := make([]models.IntentScore, 0, len(cat.Intents))

	for i := range cat.Intents {
		entry := &cat.Intents[i]

		raw := float64(len(MatchedKeywords(norm, entry))) * keywordPoints
		if raw == 0 {
			// Hints corroborate keyword evidence; they never nominate an
			// intent on their own.
			continue
		}

		if entry.SectorsHint && len(ents.Sectors) > 0 {
			raw += hintBonusPoints
		}
		if entry.MetricsHint && metricHintApplies(entry, ents.Metrics) {
			raw += hintBonusPoints
		}

		confidence := raw / confidenceDivisor
		if confidence > 1.0 {
			confidence = 1.0
		}
		if confidence < intentThreshold {
			continue
		}

		scores = append(scores, models.IntentScore{
			Intent:     entry.ID,
			RawScore:   raw,
			Confidence: confidence,
		})
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].RawScore > scores[b].RawScore
	})
	return scores
}

// MatchedKeywords returns the entry keywords contained in the normalized
// text, in keyword declaration order.
func MatchedKeywords(norm string, entry *catalog.IntentEntry) []string {
	var matched []string
	for _, kw := range entry.Keywords {
		if strings.Contains(norm, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// metricHintApplies honors an optional metric subset: when present, only
// subset metrics trigger the bonus.
func metricHintApplies(entry *catalog.IntentEntry, metrics []string) bool {
	if len(metrics) == 0 {
		return false
	}
	if len(entry.MetricSubset) == 0 {
		return true
	}
	for _, m := range metrics {
		for _, want := range entry.MetricSubset {
			if m == want {
				return true
			}
		}
	}
	return false
}
