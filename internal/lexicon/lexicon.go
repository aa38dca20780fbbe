// Package lexicon loads the flat sector and metric term lists used for
// dictionary-style entity matching. A Set is immutable after load and safe
// for unlimited concurrent readers.
package lexicon

import (
	"bufio"
	"os"
	"strings"

	commonerrors "insight-router/internal/common/errors"
)

// Set holds the two term lists in file declaration order, lowercased.
// Declaration order matters: extraction emits matches in this order so the
// same query always yields the same byte-identical entity set.
type Set struct {
	Sectors []string
	Metrics []string

	sectorIndex map[string]struct{}
	metricIndex map[string]struct{}
}

// Load reads both lexicon files. A missing or empty file is a fatal
// configuration error.
func Load(sectorPath, metricPath string) (*Set, error) {
	sectors, err := loadTerms(sectorPath)
	if err != nil {
		return nil, err
	}
	metrics, err := loadTerms(metricPath)
	if err != nil {
		return nil, err
	}

	s := &Set{
		Sectors:     sectors,
		Metrics:     metrics,
		sectorIndex: make(map[string]struct{}, len(sectors)),
		metricIndex: make(map[string]struct{}, len(metrics)),
	}
	for _, t := range sectors {
		s.sectorIndex[t] = struct{}{}
	}
	for _, t := range metrics {
		s.metricIndex[t] = struct{}{}
	}
	return s, nil
}

func loadTerms(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, commonerrors.NewConfigErrorf("lexicon file %s: %v", path, err)
	}
	defer f.Close()

	var terms []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		term := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if term == "" || strings.HasPrefix(term, "#") {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, commonerrors.NewConfigErrorf("lexicon file %s: %v", path, err)
	}

	if len(terms) == 0 {
		return nil, commonerrors.NewConfigErrorf("lexicon file %s contains no terms", path)
	}
	return terms, nil
}

// HasSector reports whether term is a known sector, case-insensitively.
func (s *Set) HasSector(term string) bool {
	_, ok := s.sectorIndex[strings.ToLower(strings.TrimSpace(term))]
	return ok
}

// HasMetric reports whether term is a known metric, case-insensitively.
func (s *Set) HasMetric(term string) bool {
	_, ok := s.metricIndex[strings.ToLower(strings.TrimSpace(term))]
	return ok
}

// MatchSectors returns every sector term contained in the normalized text.
// Multi-word terms match as whole phrases, not token by token.
func (s *Set) MatchSectors(normalizedText string) []string {
	return matchTerms(s.Sectors, normalizedText)
}

// MatchMetrics returns every metric term contained in the normalized text.
func (s *Set) MatchMetrics(normalizedText string) []string {
	return matchTerms(s.Metrics, normalizedText)
}

func matchTerms(terms []string, text string) []string {
	var matched []string
	for _, term := range terms {
		if strings.Contains(text, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
