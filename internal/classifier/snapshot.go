// internal/classifier/snapshot.go
package classifier

import (
	"sync/atomic"

	"insight-router/internal/catalog"
	commonerrors "insight-router/internal/common/errors"
	"insight-router/internal/entity"
	"insight-router/internal/lexicon"
)

// Snapshot bundles the immutable lexicons, catalog and a ready extractor.
// A snapshot is built fully before anyone can see it; reload replaces the
// whole snapshot at once so readers never observe a half-loaded catalog.
type Snapshot struct {
	Lexicons  *lexicon.Set
	Catalog   *catalog.Catalog
	Extractor *entity.Extractor
}

// LoadSnapshot loads and cross-validates all classifier configuration.
func LoadSnapshot(sectorPath, metricPath, catalogPath string) (*Snapshot, error) {
	lex, err := lexicon.Load(sectorPath, metricPath)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, err
	}

	// Metric subsets reference the metric lexicon; a dangling term would
	// silently disable its hint bonus, so reject it up front.
	for i := range cat.Intents {
		for _, term := range cat.Intents[i].MetricSubset {
			if !lex.HasMetric(term) {
				return nil, commonerrors.NewConfigErrorf(
					"intent %q: metric_subset term %q is not in the metric lexicon",
					cat.Intents[i].ID, term)
			}
		}
	}

	return &Snapshot{
		Lexicons:  lex,
		Catalog:   cat,
		Extractor: entity.New(lex, cat),
	}, nil
}

// Provider hands out the current snapshot and supports atomic replacement.
// The only mutation in the whole classifier is Swap.
type Provider struct {
	current atomic.Pointer[Snapshot]
}

func NewProvider(s *Snapshot) *Provider {
	p := &Provider{}
	p.current.Store(s)
	return p
}

// Current returns the active snapshot.
func (p *Provider) Current() *Snapshot {
	return p.current.Load()
}

// Swap atomically replaces the active snapshot.
func (p *Provider) Swap(s *Snapshot) {
	p.current.Store(s)
}
