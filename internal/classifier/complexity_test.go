// internal/classifier/complexity_test.go
package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-router/internal/catalog"
	"insight-router/internal/models"
)

func intPtr(n int) *int { return &n }

func complexityTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(scorerCatalog))
	require.NoError(t, err)
	return c
}

// ==========================
// Weight Accumulation Tests
// ==========================

func TestEvaluateComplexity_Buckets(t *testing.T) {
	cat := complexityTestCatalog(t)

	tests := []struct {
		name        string
		intentCount int
		ents        models.Entities
		urgent      bool
		wantScore   int
		wantBucket  models.Complexity
	}{
		{
			name:        "minimal query",
			intentCount: 1,
			ents:        models.Entities{},
			wantScore:   2, // intent_single + sector_few + metrics_none
			wantBucket:  models.ComplexitySimple,
		},
		{
			name:        "single intent one sector short horizon one metric",
			intentCount: 1,
			ents: models.Entities{
				Sectors:     []string{"construction"},
				Metrics:     []string{"retention"},
				TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonRelative, Value: 24, Unit: "month", Months: intPtr(24)},
			},
			wantScore:  4, // 1 + 1 + 1 + 1
			wantBucket: models.ComplexitySimple,
		},
		{
			name:        "multi intent many sectors medium horizon",
			intentCount: 2,
			ents: models.Entities{
				Sectors:     []string{"construction", "retail"},
				Metrics:     []string{"retention"},
				TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonRelative, Value: 36, Unit: "month", Months: intPtr(36)},
			},
			wantScore:  9, // 3 + 3 + 2 + 1
			wantBucket: models.ComplexityComplex,
		},
		{
			name:        "long horizon many metrics",
			intentCount: 2,
			ents: models.Entities{
				Sectors:     []string{"construction", "retail", "energy"},
				Metrics:     []string{"retention", "turnover", "salary"},
				TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonRelative, Value: 60, Unit: "month", Months: intPtr(60)},
			},
			wantScore:  12, // 3 + 3 + 3 + 3
			wantBucket: models.ComplexityComplex,
		},
		{
			name:        "urgency bonus pushes into crisis range",
			intentCount: 2,
			ents: models.Entities{
				Sectors: []string{"construction", "retail"},
				Metrics: []string{"retention"},
			},
			urgent:     true,
			wantScore:  13, // 3 + 3 + 1 + 6
			wantBucket: models.ComplexityCrisis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, score := EvaluateComplexity(tt.intentCount, tt.ents, tt.urgent, cat)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, tt.wantBucket, bucket)
		})
	}
}

// ==========================
// Crisis Override Tests
// ==========================

func TestEvaluateComplexity_CrisisOverride(t *testing.T) {
	cat := complexityTestCatalog(t)

	// Urgency plus a 1-month horizon forces crisis even though the numeric
	// score lands in the complex range.
	ents := models.Entities{
		Metrics:     []string{"retention"},
		TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonRelative, Value: 1, Unit: "month", Months: intPtr(1)},
	}
	bucket, score := EvaluateComplexity(1, ents, true, cat)

	assert.Equal(t, 10, score) // 1 + 1 + 1 + 1 + 6
	assert.Equal(t, models.ComplexityCrisis, bucket)
}

func TestEvaluateComplexity_UrgencyWithoutTightHorizonIsNotCrisis(t *testing.T) {
	cat := complexityTestCatalog(t)

	ents := models.Entities{
		Metrics:     []string{"retention"},
		TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonRelative, Value: 12, Unit: "month", Months: intPtr(12)},
	}
	bucket, _ := EvaluateComplexity(1, ents, true, cat)
	assert.Equal(t, models.ComplexityComplex, bucket)
}

func TestEvaluateComplexity_TightHorizonWithoutUrgencyIsNotCrisis(t *testing.T) {
	cat := complexityTestCatalog(t)

	ents := models.Entities{
		TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonRelative, Value: 1, Unit: "month", Months: intPtr(1)},
	}
	bucket, _ := EvaluateComplexity(1, ents, false, cat)
	assert.Equal(t, models.ComplexitySimple, bucket)
}

func TestEvaluateComplexity_OpenHorizonContributesNothing(t *testing.T) {
	cat := complexityTestCatalog(t)

	open := models.Entities{
		TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonAbsolute, StartYear: 2022},
	}
	none := models.Entities{}

	_, openScore := EvaluateComplexity(1, open, false, cat)
	_, noneScore := EvaluateComplexity(1, none, false, cat)
	assert.Equal(t, noneScore, openScore)
}

func TestEvaluateComplexity_UrgentOpenHorizonIsNotCrisis(t *testing.T) {
	cat := complexityTestCatalog(t)

	// The override needs a bounded horizon; an open-ended one never
	// qualifies.
	ents := models.Entities{
		TimeHorizon: &models.TimeHorizon{Type: models.TimeHorizonAbsolute, StartYear: 2022},
	}
	bucket, _ := EvaluateComplexity(1, ents, true, cat)
	assert.Equal(t, models.ComplexityMedium, bucket)
}

// Every combination of inputs lands in some bucket; the function is total.
func TestEvaluateComplexity_Totality(t *testing.T) {
	cat := complexityTestCatalog(t)

	horizons := []*models.TimeHorizon{
		nil,
		{Type: models.TimeHorizonRelative, Value: 6, Unit: "month", Months: intPtr(6)},
		{Type: models.TimeHorizonRelative, Value: 36, Unit: "month", Months: intPtr(36)},
		{Type: models.TimeHorizonRelative, Value: 72, Unit: "month", Months: intPtr(72)},
		{Type: models.TimeHorizonAbsolute, StartYear: 2020},
	}
	sectorSets := [][]string{nil, {"a"}, {"a", "b"}, {"a", "b", "c"}}
	metricSets := [][]string{nil, {"m"}, {"m", "n"}, {"m", "n", "o"}}

	for _, intents := range []int{1, 2, 5} {
		for _, h := range horizons {
			for _, sectors := range sectorSets {
				for _, ms := range metricSets {
					for _, urgent := range []bool{false, true} {
						ents := models.Entities{Sectors: sectors, Metrics: ms, TimeHorizon: h}
						bucket, score := EvaluateComplexity(intents, ents, urgent, cat)
						assert.Contains(t, []models.Complexity{
							models.ComplexitySimple, models.ComplexityMedium,
							models.ComplexityComplex, models.ComplexityCrisis,
						}, bucket)
						assert.GreaterOrEqual(t, score, 0)
					}
				}
			}
		}
	}
}
