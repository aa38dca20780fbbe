// Package entity extracts structured entities (sectors, metrics, time
// horizon) from free query text using the lexicon store and the catalog's
// time-phrase grammar. Extraction is pure: no I/O, no shared mutable state,
// and absence of any entity is a normal result, never an error.
package entity

import (
	"strings"

	"insight-router/internal/catalog"
	"insight-router/internal/lexicon"
	"insight-router/internal/models"
)

// Extractor scans raw text against an immutable lexicon and time grammar.
type Extractor struct {
	lexicons *lexicon.Set
	patterns []catalog.TimePattern
}

func New(lex *lexicon.Set, cat *catalog.Catalog) *Extractor {
	return &Extractor{
		lexicons: lex,
		patterns: cat.TimePatterns,
	}
}

// Normalize lowercases and collapses whitespace without mutating the input.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Extract produces a fresh entity set for one query.
func (e *Extractor) Extract(text string) models.Entities {
	norm := Normalize(text)

	return models.Entities{
		Sectors:     e.lexicons.MatchSectors(norm),
		Metrics:     e.lexicons.MatchMetrics(norm),
		TimeHorizon: e.extractTimeHorizon(norm),
	}
}

// ExtractNormalized is Extract for callers that already normalized the text.
func (e *Extractor) ExtractNormalized(norm string) models.Entities {
	return models.Entities{
		Sectors:     e.lexicons.MatchSectors(norm),
		Metrics:     e.lexicons.MatchMetrics(norm),
		TimeHorizon: e.extractTimeHorizon(norm),
	}
}
