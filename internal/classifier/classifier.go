// Package classifier turns free query text into a deterministic
// Classification: ranked intents, complexity bucket, extracted entities and
// redacted human-readable reasons. The same input always yields the same
// output; no call here touches the network, a database or the clock.
package classifier

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	commonerrors "insight-router/internal/common/errors"
	"insight-router/internal/common/logger"
	"insight-router/internal/common/metrics"
	"insight-router/internal/entity"
	"insight-router/internal/models"
)

// DefaultMinConfidence is the confidence gate applied when none is
// configured.
const DefaultMinConfidence = 0.55

const excerptLimit = 80

type Classifier struct {
	provider      *Provider
	minConfidence float64
	logger        logger.Logger
}

func New(provider *Provider, minConfidence float64, log logger.Logger) *Classifier {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Classifier{
		provider:      provider,
		minConfidence: minConfidence,
		logger:        log.With(map[string]interface{}{"component": "classifier"}),
	}
}

// Classify runs the full pipeline: normalize, extract entities, score
// intents, evaluate complexity, compose redacted reasons.
//
// NO_INTENT_MATCHED is returned when no intent clears the score threshold;
// LOW_CONFIDENCE when the top intent scores below the configured minimum.
// Both carry only redacted query excerpts and are recoverable: the caller
// should ask for clarification or supply an explicit intent. Retrying
// without changing the input is pointless, so nothing is retried here.
func (c *Classifier) Classify(text string) (*models.Classification, error) {
	start := time.Now()
	snap := c.provider.Current()

	norm := entity.Normalize(text)
	ents := snap.Extractor.ExtractNormalized(norm)
	scores := Score(norm, ents, snap.Catalog)

	if len(scores) == 0 {
		metrics.ClassificationsFailed.WithLabelValues(string(commonerrors.ErrCodeNoIntent)).Inc()
		metrics.ClassificationDuration.WithLabelValues("no_intent").Observe(time.Since(start).Seconds())
		return nil, commonerrors.NewNoIntentError(excerpt(Redact(norm)))
	}

	top := scores[0]
	if top.Confidence < c.minConfidence {
		metrics.ClassificationsFailed.WithLabelValues(string(commonerrors.ErrCodeLowConfidence)).Inc()
		metrics.ClassificationDuration.WithLabelValues("low_confidence").Observe(time.Since(start).Seconds())
		return nil, commonerrors.NewLowConfidenceError(top.Confidence, c.minConfidence, excerpt(Redact(norm)))
	}

	urgent := snap.Catalog.HasUrgency(norm)
	complexity, complexityScore := EvaluateComplexity(len(scores), ents, urgent, snap.Catalog)

	intents := make([]string, len(scores))
	for i, s := range scores {
		intents[i] = s.Intent
	}

	result := &models.Classification{
		Intents:    intents,
		Complexity: complexity,
		Entities:   ents,
		Confidence: top.Confidence,
		Reasons:    c.buildReasons(norm, top, ents, urgent, complexity, complexityScore, snap),
	}

	metrics.ClassificationsCompleted.WithLabelValues(string(complexity)).Inc()
	metrics.ClassificationDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	c.logger.Debug("query classified", map[string]interface{}{
		"topIntent":   top.Intent,
		"confidence":  top.Confidence,
		"intentCount": len(intents),
		"complexity":  string(complexity),
		"sectorCount": len(ents.Sectors),
		"metricCount": len(ents.Metrics),
	})

	return result, nil
}

// MinConfidence returns the configured confidence gate.
func (c *Classifier) MinConfidence() float64 {
	return c.minConfidence
}

// buildReasons emits one human-readable reason per contributing signal.
// Every reason passes through Redact exactly once before it leaves the
// classifier; Redact is idempotent, so downstream re-redaction is harmless.
func (c *Classifier) buildReasons(norm string, top models.IntentScore, ents models.Entities,
	urgent bool, complexity models.Complexity, complexityScore int, snap *Snapshot) []string {

	reasons := make([]string, 0, 6)

	if entry, ok := snap.Catalog.Get(top.Intent); ok {
		matched := MatchedKeywords(norm, entry)
		reasons = append(reasons, fmt.Sprintf(
			"query %q matched intent %q via keywords: %s",
			excerpt(Redact(norm)), top.Intent, strings.Join(matched, ", ")))
	}

	if len(ents.Sectors) > 0 {
		reasons = append(reasons, fmt.Sprintf("matched sectors: %s", strings.Join(ents.Sectors, ", ")))
	}
	if len(ents.Metrics) > 0 {
		reasons = append(reasons, fmt.Sprintf("matched metrics: %s", strings.Join(ents.Metrics, ", ")))
	}

	if months, ok := ents.TimeHorizon.BoundedMonths(); ok {
		reasons = append(reasons, fmt.Sprintf("time horizon: %d months", months))
	} else if ents.TimeHorizon != nil {
		reasons = append(reasons, fmt.Sprintf("time horizon: open-ended since %d", ents.TimeHorizon.StartYear))
	}

	if urgent {
		reasons = append(reasons, "urgency vocabulary present")
	}

	reasons = append(reasons, fmt.Sprintf("complexity score %d -> %s", complexityScore, complexity))

	for i, r := range reasons {
		reasons[i] = Redact(r)
	}
	return reasons
}

// excerpt truncates to the limit without cutting a rune in half, so the
// result is always valid UTF-8.
func excerpt(norm string) string {
	if len(norm) <= excerptLimit {
		return norm
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(norm[cut]) {
		cut--
	}
	return norm[:cut] + "..."
}
