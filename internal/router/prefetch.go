// internal/router/prefetch.go
package router

import (
	"insight-router/internal/catalog"
	"insight-router/internal/models"
)

// Prefetch "wants" names, matching the catalog schema enum.
const (
	wantSectors = "sectors"
	wantMetrics = "metrics"
	wantWindow  = "window"
)

// buildPrefetch expands the prefetch templates of every selected agent,
// filling each declared want from the extracted entities. A want with no
// matching entity is simply omitted from the params; downstream fetchers
// treat missing params as "all".
func (r *Router) buildPrefetch(agents []string, ents models.Entities) []models.PrefetchSpec {
	snap := r.provider.Current()

	var specs []models.PrefetchSpec
	seen := make(map[string]bool)
	for _, agent := range agents {
		entry, ok := snap.Catalog.Get(agent)
		if !ok {
			continue
		}
		for _, tmpl := range entry.Prefetch {
			// Agents may share fetch functions; one spec per function is
			// enough for the downstream fetcher.
			if seen[tmpl.Function] {
				continue
			}
			seen[tmpl.Function] = true
			specs = append(specs, models.PrefetchSpec{
				FunctionName: tmpl.Function,
				Params:       paramsFromEntities(tmpl, ents),
			})
		}
	}
	return specs
}

func paramsFromEntities(tmpl catalog.PrefetchTemplate, ents models.Entities) map[string]interface{} {
	params := make(map[string]interface{})
	for _, want := range tmpl.Wants {
		switch want {
		case wantSectors:
			if len(ents.Sectors) > 0 {
				params[wantSectors] = ents.Sectors
			}
		case wantMetrics:
			if len(ents.Metrics) > 0 {
				params[wantMetrics] = ents.Metrics
			}
		case wantWindow:
			if months, ok := ents.TimeHorizon.BoundedMonths(); ok {
				params["windowMonths"] = months
			} else if ents.TimeHorizon != nil {
				params["windowSinceYear"] = ents.TimeHorizon.StartYear
			}
		}
	}
	return params
}

// prefetchFromParams expands templates for an explicit-intent descriptor,
// copying caller params for each declared want instead of extracted
// entities.
func prefetchFromParams(entry *catalog.IntentEntry, callerParams map[string]interface{}) []models.PrefetchSpec {
	var specs []models.PrefetchSpec
	for _, tmpl := range entry.Prefetch {
		params := make(map[string]interface{})
		for _, want := range tmpl.Wants {
			if v, ok := callerParams[want]; ok {
				params[want] = v
			}
		}
		specs = append(specs, models.PrefetchSpec{
			FunctionName: tmpl.Function,
			Params:       params,
		})
	}
	return specs
}
