// internal/entity/timeparse.go
package entity

import (
	"strconv"
	"strings"

	"insight-router/internal/catalog"
	"insight-router/internal/models"
)

// Capture-group contract for catalog time patterns:
//
//	relative:       group 1 = count, group 2 = unit (month/months/year/years)
//	absolute_range: group 1 = start year, group 2 = end year
//	absolute_open:  group 1 = start year
//	immediate:      no groups; resolves to a 1-month relative horizon
//
// Patterns apply in catalog declaration order; the first match wins. An
// open-ended absolute range resolves with Months nil so the result does not
// depend on the wall clock.
func (e *Extractor) extractTimeHorizon(norm string) *models.TimeHorizon {
	for _, p := range e.patterns {
		m := p.Regex.FindStringSubmatch(norm)
		if m == nil {
			continue
		}

		switch p.Kind {
		case catalog.PatternRelative:
			if h := resolveRelative(m); h != nil {
				return h
			}
		case catalog.PatternImmediate:
			months := 1
			return &models.TimeHorizon{
				Type:   models.TimeHorizonRelative,
				Value:  1,
				Unit:   "month",
				Months: &months,
			}
		case catalog.PatternAbsoluteRange:
			if h := resolveAbsoluteRange(m); h != nil {
				return h
			}
		case catalog.PatternAbsoluteOpen:
			if h := resolveAbsoluteOpen(m); h != nil {
				return h
			}
		}
	}
	return nil
}

func resolveRelative(m []string) *models.TimeHorizon {
	if len(m) < 3 {
		return nil
	}
	value, err := strconv.Atoi(m[1])
	if err != nil || value <= 0 {
		return nil
	}

	unit := strings.TrimSuffix(m[2], "s")
	months := value
	if unit == "year" {
		months = value * 12
	}

	return &models.TimeHorizon{
		Type:   models.TimeHorizonRelative,
		Value:  value,
		Unit:   unit,
		Months: &months,
	}
}

func resolveAbsoluteRange(m []string) *models.TimeHorizon {
	if len(m) < 3 {
		return nil
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || end < start {
		return nil
	}

	// Inclusive span: 2020-2022 covers 36 months.
	months := (end - start + 1) * 12
	return &models.TimeHorizon{
		Type:      models.TimeHorizonAbsolute,
		StartYear: start,
		EndYear:   &end,
		Months:    &months,
	}
}

func resolveAbsoluteOpen(m []string) *models.TimeHorizon {
	if len(m) < 2 {
		return nil
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	return &models.TimeHorizon{
		Type:      models.TimeHorizonAbsolute,
		StartYear: start,
	}
}
