// internal/classifier/classifier_test.go
package classifier

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "insight-router/internal/common/errors"
	"insight-router/internal/common/logger"
	"insight-router/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

const testSectors = `construction
manufacturing
hospitality
retail
finance
`

const testMetrics = `retention
turnover
attrition
headcount
salary
`

const testCatalogDoc = `{
  "intents": [
    {
      "id": "sector_overview",
      "description": "sector snapshot",
      "keywords": ["overview", "summary", "snapshot"],
      "sectors_hint": true,
      "prefetch": [{"function": "fetch_sector_stats", "wants": ["sectors", "window"]}]
    },
    {
      "id": "anomaly_scan",
      "description": "find outliers",
      "keywords": ["which companies", "unusual", "outlier"],
      "sectors_hint": true,
      "metrics_hint": true,
      "prefetch": [{"function": "fetch_anomaly_candidates", "wants": ["sectors", "metrics", "window"]}]
    },
    {
      "id": "risk_alert",
      "description": "acute risk",
      "keywords": ["sudden", "drop", "spike", "alert"],
      "metrics_hint": true,
      "metric_subset": ["retention", "turnover", "attrition", "headcount"],
      "prefetch": [{"function": "fetch_alert_feed", "wants": ["metrics", "window"]}]
    },
    {
      "id": "benchmark_compare",
      "description": "compare cohorts",
      "keywords": ["compare", "versus", "benchmark"],
      "sectors_hint": true,
      "metrics_hint": true,
      "prefetch": [{"function": "fetch_benchmark_set", "wants": ["sectors", "metrics"]}]
    },
    {
      "id": "driver_analysis",
      "description": "explain outcomes",
      "keywords": ["why", "driver", "what explains"],
      "sectors_hint": true,
      "metrics_hint": true,
      "prefetch": [{"function": "fetch_driver_factors", "wants": ["sectors", "metrics", "window"]}]
    }
  ],
  "urgency_keywords": ["urgent", "sudden", "crisis", "emergency", "immediately", "asap"],
  "time_patterns": [
    {"kind": "relative", "pattern": "\\b(?:last|past|previous)\\s+(\\d{1,3})\\s+(months?|years?)\\b"},
    {"kind": "absolute_range", "pattern": "\\b((?:19|20)\\d{2})\\s*(?:-|to|through)\\s*((?:19|20)\\d{2})\\b"},
    {"kind": "absolute_open", "pattern": "\\bsince\\s+((?:19|20)\\d{2})\\b"},
    {"kind": "immediate", "pattern": "\\b(?:now|right now|today|currently|this month)\\b"}
  ],
  "complexity": {
    "weights": {
      "intent_single": 1, "intent_multi": 3,
      "sector_few": 1, "sector_many": 3,
      "horizon_short": 1, "horizon_medium": 2, "horizon_long": 3,
      "metrics_none": 0, "metrics_few": 1, "metrics_many": 3,
      "urgency_bonus": 6
    },
    "thresholds": [
      {"bucket": "simple", "min": 0, "max": 4},
      {"bucket": "medium", "min": 5, "max": 8},
      {"bucket": "complex", "min": 9, "max": 12},
      {"bucket": "crisis", "min": 13, "max": null}
    ]
  }
}`

func newTestProvider(t testing.TB) *Provider {
	t.Helper()

	dir := t.TempDir()
	sectorPath := filepath.Join(dir, "sectors.txt")
	metricPath := filepath.Join(dir, "metrics.txt")
	catalogPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(sectorPath, []byte(testSectors), 0o644))
	require.NoError(t, os.WriteFile(metricPath, []byte(testMetrics), 0o644))
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogDoc), 0o644))

	snap, err := LoadSnapshot(sectorPath, metricPath, catalogPath)
	require.NoError(t, err)
	return NewProvider(snap)
}

func newTestClassifier(t testing.TB) *Classifier {
	t.Helper()
	return New(newTestProvider(t), DefaultMinConfidence, logger.NewTestLogger(t))
}

// ==========================
// Snapshot Loading Tests
// ==========================

func TestLoadSnapshot_RejectsDanglingMetricSubset(t *testing.T) {
	dir := t.TempDir()
	sectorPath := filepath.Join(dir, "sectors.txt")
	metricPath := filepath.Join(dir, "metrics.txt")
	catalogPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(sectorPath, []byte(testSectors), 0o644))
	require.NoError(t, os.WriteFile(metricPath, []byte("salary\n"), 0o644))
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalogDoc), 0o644))

	// risk_alert's subset names metrics absent from the shrunken lexicon.
	_, err := LoadSnapshot(sectorPath, metricPath, catalogPath)
	require.Error(t, err)
	assert.True(t, commonerrors.IsConfigError(err))
}

func TestProvider_SwapReplacesSnapshot(t *testing.T) {
	p := newTestProvider(t)
	first := p.Current()
	require.NotNil(t, first)

	second := &Snapshot{Lexicons: first.Lexicons, Catalog: first.Catalog, Extractor: first.Extractor}
	p.Swap(second)
	assert.Same(t, second, p.Current())
}

// ==========================
// Classification Tests
// ==========================

func TestClassify_AnomalyQuery(t *testing.T) {
	c := newTestClassifier(t)

	result, err := c.Classify("Which companies show unusual retention in Construction last 24 months?")
	require.NoError(t, err)

	assert.Equal(t, []string{"anomaly_scan"}, result.Intents)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	assert.Equal(t, models.ComplexitySimple, result.Complexity)
	assert.Equal(t, []string{"construction"}, result.Entities.Sectors)
	assert.Equal(t, []string{"retention"}, result.Entities.Metrics)

	require.NotNil(t, result.Entities.TimeHorizon)
	months, ok := result.Entities.TimeHorizon.BoundedMonths()
	require.True(t, ok)
	assert.Equal(t, 24, months)

	assert.NotEmpty(t, result.Reasons)
}

func TestClassify_UrgentDropIsCrisis(t *testing.T) {
	c := newTestClassifier(t)

	result, err := c.Classify("Urgent: sudden retention drop now")
	require.NoError(t, err)

	assert.Equal(t, []string{"risk_alert"}, result.Intents)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
	assert.Equal(t, models.ComplexityCrisis, result.Complexity)

	require.NotNil(t, result.Entities.TimeHorizon)
	months, ok := result.Entities.TimeHorizon.BoundedMonths()
	require.True(t, ok)
	assert.Equal(t, 1, months)
}

func TestClassify_MultiIntent(t *testing.T) {
	c := newTestClassifier(t)

	result, err := c.Classify("Why is retention dropping in Construction, and how does it compare versus Retail?")
	require.NoError(t, err)

	// driver_analysis leads; risk_alert rides on the "drop" substring;
	// benchmark_compare on compare/versus. Ranked by raw score.
	require.GreaterOrEqual(t, len(result.Intents), 2)
	assert.Contains(t, result.Intents, "driver_analysis")
	assert.Contains(t, result.Intents, "benchmark_compare")
	assert.Equal(t, result.Intents[0], "benchmark_compare")
}

func TestClassify_NoIntent(t *testing.T) {
	c := newTestClassifier(t)

	for _, text := range []string{"Show me some data", "Weather forecast for Doha"} {
		_, err := c.Classify(text)
		require.Error(t, err, "text %q", text)
		assert.Equal(t, commonerrors.ErrCodeNoIntent, commonerrors.CodeOf(err))
		assert.True(t, commonerrors.IsRecoverable(err))
	}
}

func TestClassify_LowConfidence(t *testing.T) {
	c := newTestClassifier(t)

	// One keyword plus one hint bonus: 2/5 = 0.4, above the intent floor
	// but under the 0.55 gate.
	_, err := c.Classify("compare retention")
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeLowConfidence, commonerrors.CodeOf(err))
	assert.True(t, commonerrors.IsRecoverable(err))
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newTestClassifier(t)

	_, err := c.Classify("")
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeNoIntent, commonerrors.CodeOf(err))
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier(t)
	text := "Why is retention dropping in Construction, and how does it compare versus Retail since 2022?"

	first, err := c.Classify(text)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := c.Classify(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// ==========================
// Redaction Boundary Tests
// ==========================

func TestClassify_ReasonsAreRedacted(t *testing.T) {
	c := newTestClassifier(t)

	result, err := c.Classify("Why is retention dropping for employee 1234567890 reachable at jane@corp.example in Construction?")
	require.NoError(t, err)

	joined := strings.Join(result.Reasons, "\n")
	assert.NotContains(t, joined, "1234567890")
	assert.NotContains(t, joined, "jane@corp.example")
	assert.Contains(t, joined, "[REDACTED]")
}

func TestClassify_ErrorDetailsAreRedacted(t *testing.T) {
	c := newTestClassifier(t)

	_, err := c.Classify("call 5551234567890 about the thing")
	require.Error(t, err)

	ce, ok := err.(*commonerrors.ClassificationError)
	require.True(t, ok)
	assert.NotContains(t, ce.Details, "5551234567890")
	assert.Contains(t, ce.Details, "[REDACTED]")
}

// ==========================
// Excerpt Tests
// ==========================

func TestExcerpt_NeverSplitsRunes(t *testing.T) {
	// 3-byte runes put the byte limit mid-rune; the cut must back up to the
	// previous rune boundary.
	long := strings.Repeat("労", 40)
	got := excerpt(long)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), excerptLimit+3)

	short := "rotación de personal"
	assert.Equal(t, short, excerpt(short))
}

// ==========================
// Execution Bound Tests
// ==========================

// Classification is pure computation over the in-memory snapshot. A generous
// wall-clock bound on a large batch catches an accidental network, disk or
// sleep dependency on the hot path.
func TestClassify_ExecutionTimeBound(t *testing.T) {
	// The nop logger keeps per-call test logging out of the measurement.
	c := New(newTestProvider(t), DefaultMinConfidence, logger.NewNoOpLogger())
	text := "Why is retention dropping in Construction, and how does it compare versus Retail since 2022?"

	_, err := c.Classify(text)
	require.NoError(t, err)

	const iterations = 1000
	start := time.Now()
	for i := 0; i < iterations; i++ {
		_, err := c.Classify(text)
		require.NoError(t, err)
	}
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 2*time.Second, "classified %d queries in %v", iterations, elapsed)
}

func BenchmarkClassify(b *testing.B) {
	c := New(newTestProvider(b), DefaultMinConfidence, logger.NewNoOpLogger())
	text := "Why is retention dropping in Construction, and how does it compare versus Retail since 2022?"

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Classify(text); err != nil {
			b.Fatal(err)
		}
	}
}
